package lifecycle

import (
	"errors"
	"fmt"
)

// Error kinds returned by the coordinator. Match them with errors.Is.
var (
	ErrValidation     = errors.New("invalid task text")
	ErrNotAuthorized  = errors.New("not authorized to access the task store")
	ErrListResolution = errors.New("category list unavailable")
	ErrPersistence    = errors.New("task store failure")

	// ErrNotFound is returned by stores when a task id does not exist.
	ErrNotFound = errors.New("task not found")
)

// Error carries the operation that failed, its kind and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func wrap(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}
