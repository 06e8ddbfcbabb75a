package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"fourd/internal/task"
)

// Session caches which store list backs each category. It is built once by
// Init (find-or-create) and lives until Invalidate is called. Lists removed
// from the store behind the session's back are not noticed.
type Session struct {
	mu         sync.Mutex
	store      Store
	lists      map[task.Category]task.ListHandle
	authorized bool
	ready      bool
}

func NewSession(store Store) *Session {
	return &Session{store: store}
}

// Init authorizes against the store and materializes one list per category.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.init(ctx)
}

func (s *Session) init(ctx context.Context) error {
	state, err := s.store.Authorize(ctx)
	if err != nil {
		s.authorized = false
		return wrap("authorize", ErrNotAuthorized, err)
	}
	s.authorized = state == AuthGranted
	if !s.authorized {
		return wrap("authorize", ErrNotAuthorized, fmt.Errorf("access %s", state))
	}

	existing, err := s.store.Lists(ctx)
	if err != nil {
		return wrap("load lists", ErrListResolution, err)
	}
	byTitle := make(map[string]task.ListHandle, len(existing))
	for _, l := range existing {
		byTitle[l.Title] = l
	}

	lists := make(map[task.Category]task.ListHandle, len(task.All()))
	for _, c := range task.All() {
		if l, ok := byTitle[c.ListTitle()]; ok {
			lists[c] = l
			continue
		}
		l, err := s.store.CreateList(ctx, c.ListTitle())
		if err != nil {
			return wrap("create list "+c.ListTitle(), ErrListResolution, err)
		}
		lists[c] = l
	}
	s.lists = lists
	s.ready = true
	return nil
}

// List resolves the list of c, initializing the session on first use.
func (s *Session) List(ctx context.Context, c task.Category) (task.ListHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLocked(ctx); err != nil {
		return task.ListHandle{}, err
	}
	l, ok := s.lists[c]
	if !ok {
		return task.ListHandle{}, wrap("resolve list", ErrListResolution, fmt.Errorf("no list for category %q", string(c)))
	}
	return l, nil
}

func (s *Session) ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(ctx)
}

func (s *Session) ensureLocked(ctx context.Context) error {
	if s.ready && s.authorized {
		return nil
	}
	return s.init(ctx)
}

// Lists returns a copy of the resolved category lists.
func (s *Session) Lists() map[task.Category]task.ListHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[task.Category]task.ListHandle, len(s.lists))
	for c, l := range s.lists {
		out[c] = l
	}
	return out
}

func (s *Session) Authorized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorized
}

// Invalidate drops the cached lists; the next List call re-initializes.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = nil
	s.ready = false
	s.authorized = false
}
