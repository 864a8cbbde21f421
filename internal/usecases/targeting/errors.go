package targeting

import "errors"

var (
	ErrTargetNotFound     = errors.New("target not found")
	ErrAssignmentNotFound = errors.New("target assignment not found")
	ErrInvalidTarget      = errors.New("invalid target")
)
