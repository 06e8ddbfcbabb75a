package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fourd/internal/config"
	"fourd/internal/lifecycle"
	"fourd/internal/task"
)

type sessionReadyMsg struct{ err error }

type createdMsg struct {
	task task.Task
	err  error
}

// CaptureModel is the quick-entry popover: type a task, file it under a
// category.
type CaptureModel struct {
	coord      *lifecycle.Coordinator
	cfg        config.Config
	l          *zap.Logger
	input      textinput.Model
	category   task.Category
	submitting bool
	status     string
	err        error
}

func NewCapture(coord *lifecycle.Coordinator, cfg config.Config, l *zap.Logger) CaptureModel {
	ti := textinput.New()
	ti.Placeholder = "What needs to be captured?"
	ti.Width = 50
	ti.Focus()

	return CaptureModel{
		coord:    coord,
		cfg:      cfg,
		l:        l,
		input:    ti,
		category: task.Do,
		status:   "alt+1..4 file under a category • tab pick • enter file • esc quit",
	}
}

func (m CaptureModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initSession())
}

func (m CaptureModel) initSession() tea.Cmd {
	coord := m.coord
	return func() tea.Msg {
		return sessionReadyMsg{err: coord.Session().Init(context.Background())}
	}
}

func (m CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		if msg.err != nil {
			m.l.Warn("session init failed", zap.Error(msg.err))
			m.err = msg.err
		}
		return m, nil
	case createdMsg:
		m.submitting = false
		if msg.err != nil {
			m.l.Warn("create failed", zap.Error(msg.err))
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.input.SetValue("")
		m.status = fmt.Sprintf("Filed %q under %s%s", msg.task.Title, msg.task.Category.DisplayName(), dueSuffix(msg.task))
		m.l.Info("captured task", zap.String("id", msg.task.ID), zap.String("category", string(msg.task.Category)))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m CaptureModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", m.cfg.Keys.Cancel:
		return m, tea.Quit
	case "tab":
		m.category = nextCategory(m.category, 1)
		return m, nil
	case "shift+tab":
		m.category = nextCategory(m.category, -1)
		return m, nil
	case m.cfg.Keys.Confirm:
		return m.submit(m.category)
	}
	if msg.Alt && len(msg.Runes) == 1 {
		if c, ok := task.FromShortcut(string(msg.Runes)); ok {
			return m.submit(c)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m CaptureModel) submit(c task.Category) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.category = c
	m.submitting = true
	coord := m.coord
	return m, func() tea.Msg {
		t, err := coord.Create(context.Background(), text, c)
		return createdMsg{task: t, err: err}
	}
}

func (m CaptureModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("4D Capture"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	count := utf8.RuneCountInString(m.input.Value())
	counter := fmt.Sprintf("%d/%d", count, task.MaxTitleLength)
	if count > task.MaxTitleLength {
		b.WriteString(errorStyle.Render(counter))
	} else {
		b.WriteString(dimStyle.Render(counter))
	}
	b.WriteString("\n\n")

	for i, c := range task.All() {
		if i > 0 {
			b.WriteString("  ")
		}
		label := fmt.Sprintf("[%s] %s", c.Shortcut(), c.DisplayName())
		if c == m.category {
			b.WriteString(selectedStyle.Render(label))
		} else {
			b.WriteString(label)
		}
	}
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		b.WriteString(dimStyle.Render("Saving..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render(errorText(m.err)))
	default:
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	return b.String()
}

func nextCategory(c task.Category, step int) task.Category {
	all := task.All()
	for i, v := range all {
		if v == c {
			return all[wrapIndex(i+step, len(all))]
		}
	}
	return all[0]
}

func dueSuffix(t task.Task) string {
	if t.Due == nil {
		return ""
	}
	return fmt.Sprintf(" (due %s)", t.Due)
}

// errorText turns coordinator errors into the short messages shown inline.
func errorText(err error) string {
	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		return "Task must be 1-200 characters: " + err.Error()
	case errors.Is(err, lifecycle.ErrNotAuthorized):
		return "Task store access denied. Check read_only in the config."
	case errors.Is(err, lifecycle.ErrListResolution):
		return "Could not find or create the category list: " + err.Error()
	default:
		return err.Error()
	}
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
