package task

import "time"

// MaxTitleLength bounds a task title after trimming, counted in runes.
const MaxTitleLength = 200

// Priority values follow the reminders convention: lower is more urgent and
// zero means no priority at all.
const (
	PriorityNone   = 0
	PriorityHigh   = 1
	PriorityMedium = 5
	PriorityLow    = 9
)

type PriorityBand int

const (
	BandNone PriorityBand = iota
	BandHigh
	BandMedium
	BandLow
)

func (b PriorityBand) String() string {
	switch b {
	case BandHigh:
		return "High"
	case BandMedium:
		return "Medium"
	case BandLow:
		return "Low"
	default:
		return "None"
	}
}

// Marks renders the band as the "!" markers that produce it.
func (b PriorityBand) Marks() string {
	switch b {
	case BandHigh:
		return "!!!"
	case BandMedium:
		return "!!"
	case BandLow:
		return "!"
	default:
		return ""
	}
}

// BandOf maps a priority value onto its band. Values outside 1..9 are None.
func BandOf(priority int) PriorityBand {
	switch {
	case priority >= 1 && priority <= 3:
		return BandHigh
	case priority >= 4 && priority <= 6:
		return BandMedium
	case priority >= 7 && priority <= 9:
		return BandLow
	default:
		return BandNone
	}
}

// ListHandle names a list materialized in the store.
type ListHandle struct {
	ID    string
	Title string
}

// Task is a single captured item as persisted by a store.
type Task struct {
	ID          string
	Title       string
	Category    Category
	ListID      string
	Priority    int
	Due         *Date
	Alerts      []time.Time
	Notes       string
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// DueAt returns midnight of the due date in loc.
func (t Task) DueAt(loc *time.Location) (time.Time, bool) {
	if t.Due == nil {
		return time.Time{}, false
	}
	return t.Due.In(loc), true
}

// IsOverdue reports whether the due date has started before now.
func (t Task) IsOverdue(now time.Time) bool {
	due, ok := t.DueAt(now.Location())
	return ok && due.Before(now)
}

func (t Task) Band() PriorityBand {
	return BandOf(t.Priority)
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.Alerts != nil {
		c.Alerts = append([]time.Time(nil), t.Alerts...)
	}
	return c
}
