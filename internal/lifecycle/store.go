package lifecycle

import (
	"context"

	"fourd/internal/task"
)

type AuthState int

const (
	AuthNotDetermined AuthState = iota
	AuthGranted
	AuthDenied
)

func (a AuthState) String() string {
	switch a {
	case AuthGranted:
		return "granted"
	case AuthDenied:
		return "denied"
	default:
		return "not determined"
	}
}

// Store is the persistence backend tasks and their category lists live in.
type Store interface {
	// Authorize requests access, prompting if the backend needs to.
	Authorize(ctx context.Context) (AuthState, error)
	Lists(ctx context.Context) ([]task.ListHandle, error)
	CreateList(ctx context.Context, title string) (task.ListHandle, error)
	FetchIncomplete(ctx context.Context, list task.ListHandle) ([]task.Task, error)
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (task.Task, error)
	// FindByPrefix returns every task, completed or not, whose id starts
	// with prefix.
	FindByPrefix(ctx context.Context, prefix string) ([]task.Task, error)
	// Save inserts or fully rewrites t. On insert the store assigns t.ID.
	Save(ctx context.Context, t *task.Task) error
	Remove(ctx context.Context, t task.Task) error
}
