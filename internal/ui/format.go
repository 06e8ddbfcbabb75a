package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"fourd/internal/stats"
	"fourd/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

func dueLabel(t task.Task, now time.Time) string {
	due, ok := t.DueAt(now.Location())
	if !ok {
		return dimStyle.Render("no due date")
	}
	switch stats.Classify(t, now) {
	case stats.DueToday:
		return todayStyle.Render("due today")
	case stats.DueOverdue:
		return overdueStyle.Render("overdue " + humanize.RelTime(due, now, "ago", "from now"))
	default:
		return "due " + humanize.RelTime(due, now, "ago", "from now")
	}
}

func renderTaskLine(t task.Task, now time.Time) string {
	var b strings.Builder
	if marks := t.Band().Marks(); marks != "" {
		b.WriteString(overdueStyle.Render(marks))
		b.WriteString(" ")
	}
	b.WriteString(t.Title)
	b.WriteString(" · ")
	b.WriteString(dueLabel(t, now))
	if t.Notes != "" {
		b.WriteString(" ")
		b.WriteString(dimStyle.Render(t.Notes))
	}
	return b.String()
}

func renderBar(label string, count, total, width int) string {
	pct := stats.Percent(count, total)
	filled := 0
	if total > 0 {
		filled = count * width / total
	}
	bar := barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%-18s %s %3d (%d%%)", label, bar, count, pct)
}

func renderStats(s stats.Snapshot) string {
	const width = 20
	var b strings.Builder

	b.WriteString(headerStyle.Render("Overview"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total %d • Overdue %d • Due today %d • High priority %d\n",
		s.Total, s.ByDue.Overdue, s.ByDue.Today, s.HighPriority()))

	b.WriteString(headerStyle.Render("By Category"))
	b.WriteString("\n")
	for _, c := range task.All() {
		b.WriteString(renderBar(c.Bucket(), s.Category(c.Bucket()), s.Total, width))
		b.WriteString("\n")
	}
	if n := s.Category(task.OtherBucket); n > 0 {
		b.WriteString(renderBar(task.OtherBucket, n, s.Total, width))
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render("By Priority"))
	b.WriteString("\n")
	b.WriteString(renderBar("High (!!! 1-3)", s.ByPriority.High, s.Total, width) + "\n")
	b.WriteString(renderBar("Medium (!! 4-6)", s.ByPriority.Medium, s.Total, width) + "\n")
	b.WriteString(renderBar("Low (! 7-9)", s.ByPriority.Low, s.Total, width) + "\n")
	b.WriteString(renderBar("None", s.ByPriority.None, s.Total, width) + "\n")

	b.WriteString(headerStyle.Render("By Due Date"))
	b.WriteString("\n")
	b.WriteString(renderBar(stats.DueOverdue.String(), s.ByDue.Overdue, s.Active, width) + "\n")
	b.WriteString(renderBar(stats.DueToday.String(), s.ByDue.Today, s.Active, width) + "\n")
	b.WriteString(renderBar(stats.DueThisWeek.String(), s.ByDue.ThisWeek, s.Active, width) + "\n")
	b.WriteString(renderBar(stats.DueLater.String(), s.ByDue.Later, s.Active, width) + "\n")
	b.WriteString(renderBar(stats.DueNone.String(), s.ByDue.None, s.Active, width))
	return b.String()
}
