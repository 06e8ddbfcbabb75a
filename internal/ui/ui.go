package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fourd/internal/config"
	"fourd/internal/lifecycle"
)

// RunCapture blocks until the capture popover is closed.
func RunCapture(coord *lifecycle.Coordinator, cfg config.Config, l *zap.Logger) error {
	program := tea.NewProgram(NewCapture(coord, cfg, l))
	_, err := program.Run()
	return err
}

// RunDashboard blocks until the dashboard is closed.
func RunDashboard(coord *lifecycle.Coordinator, cfg config.Config, l *zap.Logger) error {
	program := tea.NewProgram(NewDashboard(coord, cfg, l, nil), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
