package domain

import (
	"regexp"
	"strings"
)

var pullRequestURLPattern = regexp.MustCompile(`^https://github\.com/[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+/pull/\d+$`)

// IsValidPullRequestURL reports whether url is a GitHub pull request URL.
func IsValidPullRequestURL(url string) bool {
	return pullRequestURLPattern.MatchString(strings.TrimSpace(url))
}

// NormalizePullRequests merges the single legacy value (first) and the list,
// trims and de-duplicates them, and validates every URL.
// Returns nil when nothing was provided.
func NormalizePullRequests(single string, list []string) ([]string, error) {
	urls := MergeUnique([]string{single}, list)
	for _, u := range urls {
		if !IsValidPullRequestURL(u) {
			return nil, ErrInvalidPullRequestURL
		}
	}
	return urls, nil
}
