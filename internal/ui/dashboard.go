package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fourd/internal/config"
	"fourd/internal/lifecycle"
	"fourd/internal/organizer"
	"fourd/internal/stats"
	"fourd/internal/task"
)

type tasksLoadedMsg struct {
	tasks []task.Task
	err   error
}

type opDoneMsg struct {
	status string
	err    error
}

// DashboardModel lists active tasks grouped by bucket and applies
// lifecycle actions to the highlighted or selected tasks.
type DashboardModel struct {
	coord      *lifecycle.Coordinator
	cfg        config.Config
	l          *zap.Logger
	now        func() time.Time
	tasks      []task.Task
	buckets    []organizer.Bucket
	rows       []task.Task
	cursor     int
	selected   map[string]bool
	loading    bool
	showStats  bool
	moving     bool
	confirmDel bool
	pendingDel *task.Task
	status     string
}

func NewDashboard(coord *lifecycle.Coordinator, cfg config.Config, l *zap.Logger, now func() time.Time) DashboardModel {
	if now == nil {
		now = time.Now
	}
	return DashboardModel{
		coord:    coord,
		cfg:      cfg,
		l:        l,
		now:      now,
		selected: map[string]bool{},
		loading:  true,
		status:   "Loading tasks...",
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.refresh()
}

func (m DashboardModel) refresh() tea.Cmd {
	coord := m.coord
	return func() tea.Msg {
		tasks, err := coord.FetchActive(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m DashboardModel) run(status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{status: status, err: fn(context.Background())}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.l.Warn("fetch active failed", zap.Error(msg.err))
			m.status = fmt.Sprintf("reload failed: %s", errorText(msg.err))
			return m, nil
		}
		m.setTasks(msg.tasks)
		if m.status == "Loading tasks..." {
			m.status = organizer.Summary(m.tasks)
		}
		return m, nil
	case opDoneMsg:
		if msg.err != nil {
			m.l.Warn("dashboard action failed", zap.Error(msg.err))
			m.status = errorText(msg.err)
		} else {
			m.status = msg.status
		}
		m.loading = true
		return m, m.refresh()
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.moving {
			return m.updateMove(msg.String())
		}
		return m.updateListMode(msg.String())
	}
	return m, nil
}

func (m *DashboardModel) setTasks(tasks []task.Task) {
	m.tasks = tasks
	m.buckets = organizer.Buckets(tasks, m.now())
	m.rows = organizer.Flatten(m.buckets)
	m.cursor = clampCursor(m.cursor, len(m.rows))
	live := make(map[string]bool, len(m.selected))
	for _, t := range m.rows {
		if m.selected[t.ID] {
			live[t.ID] = true
		}
	}
	m.selected = live
}

func (m DashboardModel) current() (task.Task, bool) {
	if len(m.rows) == 0 {
		return task.Task{}, false
	}
	return m.rows[clampCursor(m.cursor, len(m.rows))], true
}

func (m DashboardModel) selection() []task.Task {
	var out []task.Task
	for _, t := range m.rows {
		if m.selected[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

func (m DashboardModel) updateListMode(key string) (tea.Model, tea.Cmd) {
	keys := m.cfg.Keys
	switch key {
	case "ctrl+c", keys.Quit:
		return m, tea.Quit
	case keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case keys.Refresh:
		m.loading = true
		m.status = "Refreshing..."
		return m, m.refresh()
	case keys.Stats:
		m.showStats = !m.showStats
	case keys.Select:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		if m.selected[t.ID] {
			delete(m.selected, t.ID)
		} else {
			m.selected[t.ID] = true
		}
	case keys.Complete:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		coord := m.coord
		return m, m.run(fmt.Sprintf("Completed %q", t.Title), func(ctx context.Context) error {
			_, err := coord.Complete(ctx, t)
			return err
		})
	case keys.Defer:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		coord, days := m.coord, m.cfg.DeferDays
		return m, m.run(fmt.Sprintf("Deferred %q by %d days", t.Title, days), func(ctx context.Context) error {
			_, err := coord.Defer(ctx, t, days)
			return err
		})
	case keys.Delete:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case keys.Move:
		if _, ok := m.current(); !ok {
			return m, nil
		}
		m.moving = true
		m.status = "Move to: 1 Do • 2 Defer • 3 Delegate • 4 Drop (esc cancels)"
	case keys.BulkDone:
		sel := m.selection()
		if len(sel) == 0 {
			m.status = "Nothing selected"
			return m, nil
		}
		m.selected = map[string]bool{}
		coord := m.coord
		return m, m.run(fmt.Sprintf("Completed %d tasks", len(sel)), func(ctx context.Context) error {
			_, err := coord.CompleteAll(ctx, sel)
			return err
		})
	case keys.BulkDefer:
		sel := m.selection()
		if len(sel) == 0 {
			m.status = "Nothing selected"
			return m, nil
		}
		m.selected = map[string]bool{}
		coord, days := m.coord, m.cfg.DeferDays
		return m, m.run(fmt.Sprintf("Deferred %d tasks by %d days", len(sel), days), func(ctx context.Context) error {
			_, err := coord.DeferAll(ctx, sel, days)
			return err
		})
	}
	return m, nil
}

func (m DashboardModel) updateMove(key string) (tea.Model, tea.Cmd) {
	if key == m.cfg.Keys.Cancel || key == "esc" {
		m.moving = false
		m.status = "Move cancelled"
		return m, nil
	}
	c, ok := task.FromShortcut(key)
	if !ok {
		return m, nil
	}
	m.moving = false
	t, ok := m.current()
	if !ok {
		return m, nil
	}
	coord := m.coord
	return m, m.run(fmt.Sprintf("Moved %q to %s", t.Title, c.DisplayName()), func(ctx context.Context) error {
		_, err := coord.Recategorize(ctx, t, c)
		return err
	})
}

func (m DashboardModel) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		m.confirmDel = false
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		t := *m.pendingDel
		m.pendingDel = nil
		delete(m.selected, t.ID)
		coord := m.coord
		return m, m.run(fmt.Sprintf("Deleted %q", t.Title), func(ctx context.Context) error {
			return coord.Delete(ctx, t)
		})
	default:
		return m, nil
	}
}

func (m DashboardModel) View() string {
	var b strings.Builder
	now := m.now()

	b.WriteString(titleStyle.Render("4D Dashboard"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(organizer.Summary(m.tasks)))
	b.WriteString("\n")

	switch {
	case m.loading && len(m.rows) == 0:
		b.WriteString("\nLoading tasks...\n")
	case len(m.rows) == 0:
		b.WriteString("\nAll clear. Nothing left to triage.\n")
	default:
		row := 0
		for _, bucket := range m.buckets {
			b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", bucket.Label, len(bucket.Tasks))))
			b.WriteString("\n")
			for _, t := range bucket.Tasks {
				cursor := " "
				if row == m.cursor {
					cursor = ">"
				}
				check := "[ ]"
				if m.selected[t.ID] {
					check = selectedStyle.Render("[x]")
				}
				b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, check, renderTaskLine(t, now)))
				row++
			}
		}
	}

	if m.showStats {
		b.WriteString("\n")
		b.WriteString(renderStats(stats.Compute(m.tasks, now)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %q select • %s complete • %s defer • %s delete • %s recategorize • %s/%s bulk complete/defer • %s stats • %s refresh • %s quit",
		k.Up, k.Down, k.Select, k.Complete, k.Defer, k.Delete, k.Move, k.BulkDone, k.BulkDefer, k.Stats, k.Refresh, k.Quit)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
