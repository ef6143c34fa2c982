package types

import "errors"

// Domain errors for type validation
var (
	// Search result errors
	ErrInvalidResultID   = errors.New("invalid result ID")
	ErrInvalidScore      = errors.New("score must be >= 0")
	ErrInvalidResultKind = errors.New("result kind must be api or example")

	// Feedback issue errors
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidIssueType = errors.New("unknown issue type")
	ErrInvalidSeverity  = errors.New("unknown severity")
	ErrInvalidStatus    = errors.New("unknown status")
)
