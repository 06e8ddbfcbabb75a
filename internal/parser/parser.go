package parser

import (
	"errors"
	"strings"
	"unicode/utf8"

	"fourd/internal/task"
)

var (
	ErrEmpty   = errors.New("task text is empty")
	ErrTooLong = errors.New("task text exceeds 200 characters")
)

// Result is the outcome of parsing raw capture text.
type Result struct {
	Text     string
	Priority int
	// Context is "Context: #tag @person ..." or empty when no tags were found.
	Context string
}

func (r Result) HasContext() bool {
	return r.Context != ""
}

// Parse extracts the leading "!" priority marker and any #tag / @mention
// context from text. It never fails.
func Parse(text string) Result {
	trimmed := strings.TrimSpace(text)
	bangs := len(trimmed) - len(strings.TrimLeft(trimmed, "!"))
	clean := strings.TrimSpace(trimmed[bangs:])
	return Result{
		Text:     clean,
		Priority: priorityFor(bangs),
		Context:  extractContext(clean),
	}
}

// Validate checks the limits applied to capture text before it is parsed.
func Validate(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmpty
	}
	if utf8.RuneCountInString(trimmed) > task.MaxTitleLength {
		return ErrTooLong
	}
	return nil
}

func priorityFor(bangs int) int {
	switch {
	case bangs >= 3:
		return task.PriorityHigh
	case bangs == 2:
		return task.PriorityMedium
	case bangs == 1:
		return task.PriorityLow
	default:
		return task.PriorityNone
	}
}

func extractContext(text string) string {
	var tags []string
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "#") || strings.HasPrefix(word, "@") {
			tags = append(tags, word)
		}
	}
	if len(tags) == 0 {
		return ""
	}
	return "Context: " + strings.Join(tags, " ")
}
