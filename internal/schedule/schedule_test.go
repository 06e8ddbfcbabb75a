package schedule

import (
	"reflect"
	"testing"
	"time"

	"fourd/internal/task"
)

var loc = time.FixedZone("local", -5*3600)

// Wednesday.
func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, loc)
}

func date(y int, m time.Month, d int) task.Date {
	return task.Date{Year: y, Month: m, Day: d}
}

func TestDoDueDateBoundary(t *testing.T) {
	before := For(task.Do, at(17, 59))
	if *before.Due != date(2024, 5, 1) {
		t.Errorf("17:59 due = %s, want today", before.Due)
	}
	after := For(task.Do, at(18, 0))
	if *after.Due != date(2024, 5, 2) {
		t.Errorf("18:00 due = %s, want tomorrow", after.Due)
	}
}

func TestDoAlert(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"early morning", at(7, 30), time.Date(2024, 5, 1, 9, 0, 0, 0, loc)},
		{"exactly nine", at(9, 0), time.Date(2024, 5, 2, 9, 0, 0, 0, loc)},
		{"afternoon", at(14, 0), time.Date(2024, 5, 2, 9, 0, 0, 0, loc)},
		{"evening", at(22, 0), time.Date(2024, 5, 2, 9, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := For(task.Do, tt.now)
			if len(p.Alerts) != 1 || !p.Alerts[0].Equal(tt.want) {
				t.Errorf("Alerts = %v, want [%v]", p.Alerts, tt.want)
			}
		})
	}
}

func TestDeferNextMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want task.Date
	}{
		{"wednesday", time.Date(2024, 5, 1, 12, 0, 0, 0, loc), date(2024, 5, 6)},
		{"sunday night", time.Date(2024, 5, 5, 23, 0, 0, 0, loc), date(2024, 5, 6)},
		{"monday morning", time.Date(2024, 5, 6, 0, 30, 0, 0, loc), date(2024, 5, 13)},
		{"saturday month end", time.Date(2024, 8, 31, 8, 0, 0, 0, loc), date(2024, 9, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := For(task.Defer, tt.now)
			if p.Due == nil || *p.Due != tt.want {
				t.Fatalf("Due = %v, want %s", p.Due, tt.want)
			}
			wantAlert := tt.want.At(9, 0, loc)
			if len(p.Alerts) != 1 || !p.Alerts[0].Equal(wantAlert) {
				t.Errorf("Alerts = %v, want [%v]", p.Alerts, wantAlert)
			}
		})
	}
}

func TestDelegateFollowUp(t *testing.T) {
	p := For(task.Delegate, time.Date(2024, 12, 30, 16, 0, 0, 0, loc))
	if *p.Due != date(2025, 1, 2) {
		t.Errorf("Due = %s, want 2025-01-02", p.Due)
	}
	want := time.Date(2025, 1, 2, 10, 0, 0, 0, loc)
	if len(p.Alerts) != 1 || !p.Alerts[0].Equal(want) {
		t.Errorf("Alerts = %v, want [%v]", p.Alerts, want)
	}
}

func TestDropHasNoSchedule(t *testing.T) {
	p := For(task.Drop, at(10, 0))
	if p.Due != nil || len(p.Alerts) != 0 {
		t.Errorf("Drop should not schedule anything, got %+v", p)
	}
}

func TestForIsPure(t *testing.T) {
	now := at(18, 30)
	for _, c := range task.All() {
		a, b := For(c, now), For(c, now)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: repeated calls differ: %+v vs %+v", c, a, b)
		}
	}
}

func TestDeferBy(t *testing.T) {
	now := at(14, 15)
	p := DeferBy(now, 7)
	if *p.Due != date(2024, 5, 8) {
		t.Errorf("Due = %s", p.Due)
	}
	if len(p.Alerts) != 1 || !p.Alerts[0].Equal(now.AddDate(0, 0, 7)) {
		t.Errorf("Alerts = %v", p.Alerts)
	}
}

func TestApplyReplacesAlerts(t *testing.T) {
	tk := task.Task{Alerts: []time.Time{at(1, 0), at(2, 0), at(3, 0)}}
	For(task.Delegate, at(12, 0)).Apply(&tk)
	For(task.Defer, at(12, 0)).Apply(&tk)
	if len(tk.Alerts) != 1 {
		t.Fatalf("expected exactly one alert after reapplying, got %d", len(tk.Alerts))
	}
	For(task.Drop, at(12, 0)).Apply(&tk)
	if tk.Due != nil || tk.Alerts != nil {
		t.Errorf("Drop should clear the schedule, got due=%v alerts=%v", tk.Due, tk.Alerts)
	}
}
