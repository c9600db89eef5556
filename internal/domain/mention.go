package domain

import (
	"regexp"
	"strings"
	"time"
)

// Mention notifies an agent that a comment referenced them.
// TaskTitle and Content are copied at creation time and are not kept in sync.
// Fields are ordered to minimize memory padding.
type Mention struct {
	CreatedAt      time.Time `json:"createdAt" yaml:"createdAt"`
	ID             string    `json:"id" yaml:"id"`
	TaskID         string    `json:"taskId" yaml:"taskId"`
	TaskTitle      string    `json:"taskTitle" yaml:"taskTitle"`
	CommentID      string    `json:"commentId" yaml:"commentId"`
	Author         string    `json:"author" yaml:"author"`
	MentionedAgent string    `json:"mentionedAgent" yaml:"mentionedAgent"`
	Content        string    `json:"content" yaml:"content"`
	Read           bool      `json:"read" yaml:"read"`
}

// mentionPattern matches @word tokens. Group 1 is the full hyphenated token
// (@ux-lead), group 2 its leading word (@ux).
var mentionPattern = regexp.MustCompile(`@((\w+)(?:-\w+)*)`)

// ParseMentions returns the roster ids referenced as @id in text, compared
// case-insensitively, in order of first appearance and without duplicates.
// A hyphenated token that is not a roster id falls back to its leading word,
// so @dev-team still mentions dev. Tokens that are not roster ids are ignored.
func ParseMentions(text string, validIDs []string) []string {
	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[strings.ToLower(id)] = struct{}{}
	}

	var mentions []string
	seen := make(map[string]struct{})
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		id := strings.ToLower(m[1])
		if _, ok := valid[id]; !ok {
			id = strings.ToLower(m[2])
			if _, ok := valid[id]; !ok {
				continue
			}
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		mentions = append(mentions, id)
	}
	return mentions
}
