package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these.
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrStorageCorrupt = errors.New("storage corrupt")
	ErrStorageIO      = errors.New("storage write failed")
)

// Domain errors.
var (
	ErrTaskNotFound  = fmt.Errorf("task %w", ErrNotFound)
	ErrAgentNotFound = fmt.Errorf("agent %w", ErrNotFound)

	ErrEmptyTitle            = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrEmptyDescription      = fmt.Errorf("%w: description cannot be empty", ErrValidation)
	ErrEmptyCreatedBy        = fmt.Errorf("%w: createdBy cannot be empty", ErrValidation)
	ErrInvalidPriority       = fmt.Errorf("%w: invalid priority (must be low, medium, high, or urgent)", ErrValidation)
	ErrInvalidStatus         = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrInvalidAgentStatus    = fmt.Errorf("%w: invalid agent status", ErrValidation)
	ErrInvalidWorkLogAction  = fmt.Errorf("%w: invalid action (must be progress or blocked)", ErrValidation)
	ErrEmptyNote             = fmt.Errorf("%w: note cannot be empty", ErrValidation)
	ErrEmptyMessage          = fmt.Errorf("%w: content cannot be empty", ErrValidation)
	ErrEmptyAuthor           = fmt.Errorf("%w: author cannot be empty", ErrValidation)
	ErrEmptyAgent            = fmt.Errorf("%w: agent cannot be empty", ErrValidation)
	ErrUnknownAgent          = fmt.Errorf("%w: agent is not in the roster", ErrValidation)
	ErrInvalidPullRequestURL = fmt.Errorf("%w: pull request URLs must match https://github.com/{owner}/{repo}/pull/{number}", ErrValidation)
	ErrInvalidDeliverable    = fmt.Errorf("%w: deliverables must be .md files", ErrValidation)
	ErrNoFieldsToUpdate      = fmt.Errorf("%w: no fields to update", ErrValidation)
)

// Config errors.
var (
	ErrConfigExists        = errors.New("config file already exists")
	ErrInvalidStoreBackend = fmt.Errorf("%w: store backend must be json or git", ErrValidation)
)
