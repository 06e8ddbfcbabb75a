// Package schedule decides due dates and alert times for each category.
// Every rule is a pure function of the category and the supplied clock
// reading; wall-clock arithmetic happens in now.Location().
package schedule

import (
	"time"

	"fourd/internal/task"
)

const (
	eveningCutoffHour = 18
	morningAlertHour  = 9
	followUpAlertHour = 10
	followUpDays      = 3
)

// Plan is the due date and alerts a category assigns at a point in time.
type Plan struct {
	Due    *task.Date
	Alerts []time.Time
}

// Apply replaces the schedule of t with p. Existing alerts are always
// dropped first so repeated applications never accumulate them.
func (p Plan) Apply(t *task.Task) {
	t.Alerts = nil
	t.Due = nil
	if p.Due != nil {
		d := *p.Due
		t.Due = &d
	}
	if len(p.Alerts) > 0 {
		t.Alerts = append([]time.Time(nil), p.Alerts...)
	}
}

// For returns the schedule of a task filed under c at now.
func For(c task.Category, now time.Time) Plan {
	switch c {
	case task.Do:
		return doToday(now)
	case task.Defer:
		return nextMonday(now)
	case task.Delegate:
		return followUp(now)
	default:
		return Plan{}
	}
}

// DeferBy pushes a task days into the future: the due date becomes that day
// and a single alert fires at the same clock time as now.
func DeferBy(now time.Time, days int) Plan {
	at := now.AddDate(0, 0, days)
	due := task.DateOf(at)
	return Plan{Due: &due, Alerts: []time.Time{at}}
}

// doToday is due today, or tomorrow once the evening has started. The alert
// is computed on its own: 09:00 today if that is still ahead, else 09:00
// tomorrow. After 18:00 the alert therefore falls on the due day itself.
func doToday(now time.Time) Plan {
	today := task.DateOf(now)
	due := today
	if now.Hour() >= eveningCutoffHour {
		due = today.AddDays(1)
	}
	alertDay := today
	if now.Hour() >= morningAlertHour {
		alertDay = today.AddDays(1)
	}
	return Plan{
		Due:    &due,
		Alerts: []time.Time{alertDay.At(morningAlertHour, 0, now.Location())},
	}
}

func nextMonday(now time.Time) Plan {
	days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	due := task.DateOf(now).AddDays(days)
	return Plan{
		Due:    &due,
		Alerts: []time.Time{due.At(morningAlertHour, 0, now.Location())},
	}
}

func followUp(now time.Time) Plan {
	due := task.DateOf(now.AddDate(0, 0, followUpDays))
	return Plan{
		Due:    &due,
		Alerts: []time.Time{due.At(followUpAlertHour, 0, now.Location())},
	}
}
