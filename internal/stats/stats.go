package stats

import (
	"time"

	"fourd/internal/organizer"
	"fourd/internal/task"
)

type PriorityCounts struct {
	High   int
	Medium int
	Low    int
	None   int
}

func (p PriorityCounts) Sum() int {
	return p.High + p.Medium + p.Low + p.None
}

// DueCounts places every open task in exactly one bucket. A task due
// today counts as Today even once its day has started, so Overdue only
// holds tasks from earlier days.
type DueCounts struct {
	Overdue  int
	Today    int
	ThisWeek int
	Later    int
	None     int
}

func (d DueCounts) Sum() int {
	return d.Overdue + d.Today + d.ThisWeek + d.Later + d.None
}

// Snapshot is a point-in-time summary of a task collection.
type Snapshot struct {
	Total      int
	Active     int
	ByCategory map[string]int
	ByPriority PriorityCounts
	ByDue      DueCounts
}

func (s Snapshot) HighPriority() int {
	return s.ByPriority.High
}

// Category returns the count for a bucket label, zero when absent.
func (s Snapshot) Category(label string) int {
	return s.ByCategory[label]
}

type DueBucket int

const (
	DueNone DueBucket = iota
	DueOverdue
	DueToday
	DueThisWeek
	DueLater
)

func (b DueBucket) String() string {
	switch b {
	case DueOverdue:
		return "Overdue"
	case DueToday:
		return "Due Today"
	case DueThisWeek:
		return "Due This Week"
	case DueLater:
		return "Due Later"
	default:
		return "No Due Date"
	}
}

// Classify returns the due bucket of t at now.
func Classify(t task.Task, now time.Time) DueBucket {
	due, ok := t.DueAt(now.Location())
	if !ok {
		return DueNone
	}
	y1, m1, d1 := due.Date()
	y2, m2, d2 := now.Date()
	switch {
	case y1 == y2 && m1 == m2 && d1 == d2:
		return DueToday
	case due.Before(now):
		return DueOverdue
	case !due.After(now.AddDate(0, 0, 7)):
		return DueThisWeek
	default:
		return DueLater
	}
}

// Compute summarizes tasks at now. Completed tasks count towards Total,
// categories and priority bands but never towards a due bucket.
func Compute(tasks []task.Task, now time.Time) Snapshot {
	s := Snapshot{
		Total:      len(tasks),
		ByCategory: make(map[string]int),
	}
	for _, t := range tasks {
		s.ByCategory[organizer.BucketOf(t)]++

		switch t.Band() {
		case task.BandHigh:
			s.ByPriority.High++
		case task.BandMedium:
			s.ByPriority.Medium++
		case task.BandLow:
			s.ByPriority.Low++
		default:
			s.ByPriority.None++
		}

		if t.Completed {
			continue
		}
		s.Active++
		switch Classify(t, now) {
		case DueOverdue:
			s.ByDue.Overdue++
		case DueToday:
			s.ByDue.Today++
		case DueThisWeek:
			s.ByDue.ThisWeek++
		case DueLater:
			s.ByDue.Later++
		default:
			s.ByDue.None++
		}
	}
	return s
}

// Percent is count as a whole percentage of total, rounded down.
func Percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return count * 100 / total
}
