package task

import (
	"testing"
	"time"
)

func TestCategoryLookups(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"1", Do, true},
		{"4", Drop, true},
		{"defer", Defer, true},
		{"Delegate", Delegate, true},
		{" DROP ", Drop, true},
		{"5", "", false},
		{"later", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Parse(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	if c, ok := FromListTitle("4D - Delegate"); !ok || c != Delegate {
		t.Errorf("FromListTitle returned %q, %v", c, ok)
	}
	if Category("bogus").Bucket() != OtherBucket {
		t.Errorf("unknown category should fall into %q", OtherBucket)
	}
	if Do.Bucket() != "🔥 Do Today" {
		t.Errorf("unexpected Do bucket %q", Do.Bucket())
	}
}

func TestBandOf(t *testing.T) {
	for p := 0; p <= 9; p++ {
		want := BandNone
		switch {
		case p >= 1 && p <= 3:
			want = BandHigh
		case p >= 4 && p <= 6:
			want = BandMedium
		case p >= 7:
			want = BandLow
		}
		if got := BandOf(p); got != want {
			t.Errorf("BandOf(%d) = %v, want %v", p, got, want)
		}
	}
}

func TestBandMarks(t *testing.T) {
	cases := []struct {
		priority int
		want     string
	}{
		{PriorityNone, ""},
		{PriorityHigh, "!!!"},
		{3, "!!!"},
		{PriorityMedium, "!!"},
		{PriorityLow, "!"},
		{12, ""},
	}
	for _, c := range cases {
		if got := BandOf(c.priority).Marks(); got != c.want {
			t.Errorf("BandOf(%d).Marks() = %q, want %q", c.priority, got, c.want)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	d := Date{Year: 2024, Month: time.December, Day: 30}
	if got := d.AddDays(3).String(); got != "2025-01-02" {
		t.Errorf("AddDays across year = %s", got)
	}
	parsed, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if !parsed.AddDays(-1).Before(parsed) {
		t.Errorf("expected previous day to sort before")
	}
}

func TestIsOverdue(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)
	now := time.Date(2024, 5, 1, 15, 0, 0, 0, loc)
	yesterday := DateOf(now).AddDays(-1)
	tomorrow := DateOf(now).AddDays(1)

	if !(Task{Due: &yesterday}).IsOverdue(now) {
		t.Errorf("yesterday should be overdue")
	}
	if (Task{Due: &tomorrow}).IsOverdue(now) {
		t.Errorf("tomorrow should not be overdue")
	}
	if (Task{}).IsOverdue(now) {
		t.Errorf("a task without a due date is never overdue")
	}
}
