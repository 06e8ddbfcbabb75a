package stats

import (
	"math/rand"
	"testing"
	"time"

	"fourd/internal/task"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func dueIn(days int) *task.Date {
	d := task.DateOf(now).AddDays(days)
	return &d
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		due  *task.Date
		want DueBucket
	}{
		{"no due", nil, DueNone},
		{"yesterday", dueIn(-1), DueOverdue},
		{"today", dueIn(0), DueToday},
		{"tomorrow", dueIn(1), DueThisWeek},
		{"seven days", dueIn(7), DueThisWeek},
		{"eight days", dueIn(8), DueLater},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(task.Task{Due: tt.due}, now); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	tasks := []task.Task{
		{Category: task.Do, Priority: 1, Due: dueIn(-1)},
		{Category: task.Do, Priority: 5, Due: dueIn(0)},
		{Category: task.Defer, Priority: 9, Due: dueIn(5)},
		{Category: task.Delegate, Due: dueIn(3), Completed: true},
		{Category: task.Drop},
		{Category: "unknown", Priority: 2, Due: dueIn(30)},
	}
	input := append([]task.Task(nil), tasks...)

	s := Compute(tasks, now)

	if s.Total != 6 || s.Active != 5 {
		t.Errorf("Total/Active = %d/%d", s.Total, s.Active)
	}
	if s.Category("🔥 Do Today") != 2 || s.Category("👥 Delegated") != 1 || s.Category(task.OtherBucket) != 1 {
		t.Errorf("ByCategory = %v", s.ByCategory)
	}
	want := PriorityCounts{High: 2, Medium: 1, Low: 1, None: 2}
	if s.ByPriority != want {
		t.Errorf("ByPriority = %+v, want %+v", s.ByPriority, want)
	}
	wantDue := DueCounts{Overdue: 1, Today: 1, ThisWeek: 1, Later: 1, None: 1}
	if s.ByDue != wantDue {
		t.Errorf("ByDue = %+v, want %+v", s.ByDue, wantDue)
	}
	if s.HighPriority() != 2 {
		t.Errorf("HighPriority = %d", s.HighPriority())
	}
	for i := range tasks {
		if tasks[i].Category != input[i].Category || tasks[i].Due != input[i].Due {
			t.Fatalf("Compute modified its input at %d", i)
		}
	}
}

func TestComputePartitions(t *testing.T) {
	r := rand.New(rand.NewSource(34))
	for iter := 0; iter < 200; iter++ {
		var tasks []task.Task
		open := 0
		n := r.Intn(40)
		for i := 0; i < n; i++ {
			tk := task.Task{Category: task.All()[r.Intn(4)], Priority: r.Intn(10)}
			if r.Intn(4) > 0 {
				tk.Due = dueIn(r.Intn(30) - 10)
			}
			tk.Completed = r.Intn(5) == 0
			if !tk.Completed {
				open++
			}
			tasks = append(tasks, tk)
		}
		s := Compute(tasks, now)
		if s.ByPriority.Sum() != s.Total {
			t.Fatalf("priority bands sum to %d, total %d", s.ByPriority.Sum(), s.Total)
		}
		if s.ByDue.Sum() != open || s.Active != open {
			t.Fatalf("due buckets sum to %d, open tasks %d", s.ByDue.Sum(), open)
		}
		sum := 0
		for _, n := range s.ByCategory {
			sum += n
		}
		if sum != s.Total {
			t.Fatalf("categories sum to %d, total %d", sum, s.Total)
		}
	}
}

func TestPercent(t *testing.T) {
	if Percent(1, 0) != 0 {
		t.Errorf("empty total should give 0")
	}
	if Percent(1, 3) != 33 {
		t.Errorf("Percent(1,3) = %d", Percent(1, 3))
	}
}
