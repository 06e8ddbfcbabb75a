package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fourd/internal/organizer"
	"fourd/internal/parser"
	"fourd/internal/schedule"
	"fourd/internal/task"
)

// Coordinator turns user actions into single-record store writes. Calls
// for the same task must be serialized by the caller.
type Coordinator struct {
	store   Store
	session *Session
	now     func() time.Time
}

type Option func(*Coordinator)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

func New(store Store, session *Session, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:   store,
		session: session,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Session() *Session {
	return c.session
}

// Create validates and parses text, schedules it for category and saves it
// into the category's list.
func (c *Coordinator) Create(ctx context.Context, text string, category task.Category) (task.Task, error) {
	if err := parser.Validate(text); err != nil {
		return task.Task{}, wrap("create", ErrValidation, err)
	}
	parsed := parser.Parse(text)
	if parsed.Text == "" {
		return task.Task{}, wrap("create", ErrValidation, parser.ErrEmpty)
	}

	list, err := c.session.List(ctx, category)
	if err != nil {
		return task.Task{}, err
	}

	now := c.now()
	t := task.Task{
		Title:     parsed.Text,
		Category:  category,
		ListID:    list.ID,
		Priority:  parsed.Priority,
		Notes:     parsed.Context,
		CreatedAt: now,
	}
	schedule.For(category, now).Apply(&t)

	if err := c.store.Save(ctx, &t); err != nil {
		return task.Task{}, wrap("create", ErrPersistence, err)
	}
	return t, nil
}

func (c *Coordinator) Complete(ctx context.Context, t task.Task) (task.Task, error) {
	if err := c.session.ensure(ctx); err != nil {
		return t, err
	}
	at := c.now()
	t.Completed = true
	t.CompletedAt = &at
	return c.save(ctx, "complete", t)
}

func (c *Coordinator) Uncomplete(ctx context.Context, t task.Task) (task.Task, error) {
	if err := c.session.ensure(ctx); err != nil {
		return t, err
	}
	t.Completed = false
	t.CompletedAt = nil
	return c.save(ctx, "uncomplete", t)
}

// Defer moves the due date days ahead of now and resets the alerts to a
// single one at that instant.
func (c *Coordinator) Defer(ctx context.Context, t task.Task, days int) (task.Task, error) {
	if days < 0 {
		return t, wrap("defer", ErrValidation, fmt.Errorf("negative days %d", days))
	}
	if err := c.session.ensure(ctx); err != nil {
		return t, err
	}
	schedule.DeferBy(c.now(), days).Apply(&t)
	return c.save(ctx, "defer", t)
}

// Recategorize moves t into the list of category and reschedules it with
// that category's rules.
func (c *Coordinator) Recategorize(ctx context.Context, t task.Task, category task.Category) (task.Task, error) {
	list, err := c.session.List(ctx, category)
	if err != nil {
		return t, err
	}
	t.Category = category
	t.ListID = list.ID
	schedule.For(category, c.now()).Apply(&t)
	return c.save(ctx, "recategorize", t)
}

func (c *Coordinator) Delete(ctx context.Context, t task.Task) error {
	if err := c.session.ensure(ctx); err != nil {
		return err
	}
	if err := c.store.Remove(ctx, t); err != nil {
		return wrap("delete", ErrPersistence, err)
	}
	return nil
}

// Get reads one task. Unknown ids yield ErrNotFound.
func (c *Coordinator) Get(ctx context.Context, id string) (task.Task, error) {
	if err := c.session.ensure(ctx); err != nil {
		return task.Task{}, err
	}
	t, err := c.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return task.Task{}, ErrNotFound
	}
	if err != nil {
		return task.Task{}, wrap("get", ErrPersistence, err)
	}
	return t, nil
}

// FindByPrefix resolves a shortened id against all tasks, completed ones
// included. It fails with ErrNotFound when nothing matches.
func (c *Coordinator) FindByPrefix(ctx context.Context, prefix string) ([]task.Task, error) {
	if prefix == "" {
		return nil, wrap("find", ErrValidation, errors.New("empty id prefix"))
	}
	if err := c.session.ensure(ctx); err != nil {
		return nil, err
	}
	tasks, err := c.store.FindByPrefix(ctx, prefix)
	if err != nil {
		return nil, wrap("find", ErrPersistence, err)
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return tasks, nil
}

// FetchActive collects the incomplete tasks of every category list, dated
// tasks first.
func (c *Coordinator) FetchActive(ctx context.Context) ([]task.Task, error) {
	if err := c.session.ensure(ctx); err != nil {
		return nil, err
	}
	var all []task.Task
	for _, cat := range task.All() {
		list, err := c.session.List(ctx, cat)
		if err != nil {
			return nil, err
		}
		tasks, err := c.store.FetchIncomplete(ctx, list)
		if err != nil {
			return nil, wrap("fetch "+list.Title, ErrPersistence, err)
		}
		all = append(all, tasks...)
	}
	organizer.SortMerged(all, c.now())
	return all, nil
}

// CompleteAll completes tasks one by one. Failures do not stop the fold and
// nothing is rolled back; the tasks that were saved are returned together
// with the joined errors.
func (c *Coordinator) CompleteAll(ctx context.Context, tasks []task.Task) ([]task.Task, error) {
	return c.each(tasks, func(t task.Task) (task.Task, error) {
		return c.Complete(ctx, t)
	})
}

// DeferAll defers tasks one by one with the same partial-failure rules as
// CompleteAll.
func (c *Coordinator) DeferAll(ctx context.Context, tasks []task.Task, days int) ([]task.Task, error) {
	return c.each(tasks, func(t task.Task) (task.Task, error) {
		return c.Defer(ctx, t, days)
	})
}

func (c *Coordinator) each(tasks []task.Task, fn func(task.Task) (task.Task, error)) ([]task.Task, error) {
	var (
		done []task.Task
		errs []error
	)
	for _, t := range tasks {
		updated, err := fn(t)
		if err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", t.Title, err))
			continue
		}
		done = append(done, updated)
	}
	return done, errors.Join(errs...)
}

func (c *Coordinator) save(ctx context.Context, op string, t task.Task) (task.Task, error) {
	if err := c.store.Save(ctx, &t); err != nil {
		return t, wrap(op, ErrPersistence, err)
	}
	return t, nil
}
