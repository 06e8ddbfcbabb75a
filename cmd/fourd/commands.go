package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fourd/internal/lifecycle"
	"fourd/internal/organizer"
	"fourd/internal/stats"
	"fourd/internal/task"
	"fourd/internal/ui"
)

type runFunc func(cmd *cobra.Command, a *app, args []string) error

func withApp(configPath *string, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(*configPath)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func dashboardCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Browse active tasks by category and act on them",
		Args:  cobra.NoArgs,
		RunE: withApp(configPath, func(_ *cobra.Command, a *app, _ []string) error {
			return ui.RunDashboard(a.coord, a.cfg, a.l)
		}),
	}
}

func addCmd(configPath *string) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Capture a task, e.g. fourd add -c defer '!! call the bank #finance'",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			c, ok := task.Parse(category)
			if !ok {
				return fmt.Errorf("unknown category %q", category)
			}
			t, err := a.coord.Create(ctx, strings.Join(args, " "), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filed %q under %s (%s)\n", t.Title, c.DisplayName(), t.ID)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&category, "category", "c", string(task.Do), "do, defer, delegate, drop or 1-4")
	return cmd
}

func listCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print active tasks grouped by category",
		Args:  cobra.NoArgs,
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			tasks, err := a.coord.FetchActive(ctx)
			if err != nil {
				return err
			}
			printBuckets(cmd.OutOrStdout(), tasks, time.Now())
			return nil
		}),
	}
}

func statsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show counts by category, priority and due date",
		Args:  cobra.NoArgs,
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			tasks, err := a.coord.FetchActive(ctx)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats.Compute(tasks, time.Now()))
			return nil
		}),
	}
}

func doneCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "done [id...]",
		Short: "Complete tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			tasks, err := findTasks(ctx, a.coord, args)
			if err != nil {
				return err
			}
			done, err := a.coord.CompleteAll(ctx, tasks)
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %d of %d\n", len(done), len(tasks))
			return err
		}),
	}
}

func undoneCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "undone [id]",
		Short: "Reopen a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			t, err := findTask(ctx, a.coord, args[0])
			if err != nil {
				return err
			}
			if _, err := a.coord.Uncomplete(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %q\n", t.Title)
			return nil
		}),
	}
}

func deferCmd(configPath *string) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "defer [id...]",
		Short: "Push tasks out by a number of days",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("days") {
				days = a.cfg.DeferDays
			}
			tasks, err := findTasks(ctx, a.coord, args)
			if err != nil {
				return err
			}
			done, err := a.coord.DeferAll(ctx, tasks, days)
			fmt.Fprintf(cmd.OutOrStdout(), "Deferred %d of %d by %d days\n", len(done), len(tasks), days)
			return err
		}),
	}
	cmd.Flags().IntVarP(&days, "days", "d", 0, "days to defer (default defer_days from the config)")
	return cmd
}

func moveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "move [id] [category]",
		Short: "Recategorize a task and reschedule it",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			c, ok := task.Parse(args[1])
			if !ok {
				return fmt.Errorf("unknown category %q", args[1])
			}
			t, err := findTask(ctx, a.coord, args[0])
			if err != nil {
				return err
			}
			moved, err := a.coord.Recategorize(ctx, t, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %q to %s\n", moved.Title, c.DisplayName())
			return nil
		}),
	}
}

func rmCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(configPath, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			t, err := findTask(ctx, a.coord, args[0])
			if err != nil {
				return err
			}
			if err := a.coord.Delete(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", t.Title)
			return nil
		}),
	}
}

// findTask looks id up directly, then as a unique prefix of any task id,
// completed tasks included.
func findTask(ctx context.Context, coord *lifecycle.Coordinator, id string) (task.Task, error) {
	t, err := coord.Get(ctx, id)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, lifecycle.ErrNotFound) {
		return task.Task{}, err
	}
	matches, err := coord.FindByPrefix(ctx, id)
	if errors.Is(err, lifecycle.ErrNotFound) {
		return task.Task{}, fmt.Errorf("task %q: %w", id, lifecycle.ErrNotFound)
	}
	if err != nil {
		return task.Task{}, err
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	default:
		return task.Task{}, fmt.Errorf("task %q is ambiguous (%d matches)", id, len(matches))
	}
}

func findTasks(ctx context.Context, coord *lifecycle.Coordinator, ids []string) ([]task.Task, error) {
	out := make([]task.Task, 0, len(ids))
	for _, id := range ids {
		t, err := findTask(ctx, coord, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printBuckets(w io.Writer, tasks []task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No active tasks")
		return
	}
	fmt.Fprintln(w, organizer.Summary(tasks))
	for _, b := range organizer.Buckets(tasks, now) {
		fmt.Fprintf(w, "\n%s (%d)\n", b.Label, len(b.Tasks))
		for _, t := range b.Tasks {
			fmt.Fprintf(w, "  %s  %-4s %s%s\n", shortID(t.ID), t.Band().Marks(), t.Title, dueText(t, now))
		}
	}
}

func dueText(t task.Task, now time.Time) string {
	due, ok := t.DueAt(now.Location())
	if !ok {
		return ""
	}
	switch stats.Classify(t, now) {
	case stats.DueToday:
		return "  (due today)"
	case stats.DueOverdue:
		return fmt.Sprintf("  (overdue, %s)", t.Due)
	}
	return fmt.Sprintf("  (due %s, %s)", t.Due, humanize.RelTime(due, now, "ago", "from now"))
}

func printStats(w io.Writer, s stats.Snapshot) {
	fmt.Fprintf(w, "Total %d, overdue %d, due today %d, high priority %d\n",
		s.Total, s.ByDue.Overdue, s.ByDue.Today, s.HighPriority())

	fmt.Fprintln(w, "\nBy Category")
	for _, c := range task.All() {
		n := s.Category(c.Bucket())
		fmt.Fprintf(w, "  %-14s %3d (%d%%)\n", c.Bucket(), n, stats.Percent(n, s.Total))
	}
	if n := s.Category(task.OtherBucket); n > 0 {
		fmt.Fprintf(w, "  %-14s %3d (%d%%)\n", task.OtherBucket, n, stats.Percent(n, s.Total))
	}

	fmt.Fprintln(w, "\nBy Priority")
	for _, row := range []struct {
		label string
		n     int
	}{
		{"High", s.ByPriority.High},
		{"Medium", s.ByPriority.Medium},
		{"Low", s.ByPriority.Low},
		{"None", s.ByPriority.None},
	} {
		fmt.Fprintf(w, "  %-14s %3d (%d%%)\n", row.label, row.n, stats.Percent(row.n, s.Total))
	}

	fmt.Fprintln(w, "\nBy Due Date")
	for _, row := range []struct {
		b stats.DueBucket
		n int
	}{
		{stats.DueOverdue, s.ByDue.Overdue},
		{stats.DueToday, s.ByDue.Today},
		{stats.DueThisWeek, s.ByDue.ThisWeek},
		{stats.DueLater, s.ByDue.Later},
		{stats.DueNone, s.ByDue.None},
	} {
		fmt.Fprintf(w, "  %-14s %3d (%d%%)\n", row.b, row.n, stats.Percent(row.n, s.Active))
	}
}
