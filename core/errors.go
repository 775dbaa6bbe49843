package core

import "errors"

// Errors returned by the task and settings stores.
var (
	ErrEmptyTitle       = errors.New("title must not be empty")
	ErrTaskNotFound     = errors.New("task not found")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrRowIndex         = errors.New("criteria row index out of range")
	ErrUnknownField     = errors.New("unknown criteria field")
	ErrInvalidWeight    = errors.New("weight must be a positive number")
)
