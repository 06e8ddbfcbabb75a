package organizer

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"fourd/internal/task"
)

// Bucket is one dashboard group with its tasks in display order.
type Bucket struct {
	Label    string
	Category task.Category
	Tasks    []task.Task
}

// BucketOf returns the grouping label of t.
func BucketOf(t task.Task) string {
	return t.Category.Bucket()
}

// Compare orders tasks inside a bucket. Dated tasks come first, overdue
// before upcoming, then by due date; undated tasks follow by creation date
// with a zero creation time sorting earliest. Creation time and then ID
// break any remaining tie.
func Compare(a, b task.Task, now time.Time) int {
	if c := compareDue(a, b, now); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// CompareMerged orders tasks fetched from several lists. It agrees with
// Compare on dated tasks but treats every undated task as equal, so a
// stable sort leaves them at the end in fetch order.
func CompareMerged(a, b task.Task, now time.Time) int {
	return compareDue(a, b, now)
}

func compareDue(a, b task.Task, now time.Time) int {
	loc := now.Location()
	ad, aok := a.DueAt(loc)
	bd, bok := b.DueAt(loc)
	switch {
	case aok && bok:
		aOver, bOver := ad.Before(now), bd.Before(now)
		if aOver != bOver {
			if aOver {
				return -1
			}
			return 1
		}
		return ad.Compare(bd)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}

// Sort orders tasks in place with Compare.
func Sort(tasks []task.Task, now time.Time) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		return Compare(a, b, now)
	})
}

// SortMerged orders tasks in place with CompareMerged.
func SortMerged(tasks []task.Task, now time.Time) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		return CompareMerged(a, b, now)
	})
}

// Group partitions tasks by bucket label, each group sorted with Compare.
// The input slice is not modified.
func Group(tasks []task.Task, now time.Time) map[string][]task.Task {
	groups := make(map[string][]task.Task)
	for _, t := range tasks {
		label := BucketOf(t)
		groups[label] = append(groups[label], t)
	}
	for _, g := range groups {
		Sort(g, now)
	}
	return groups
}

// Buckets is Group in category order with Other last. Empty buckets are
// left out.
func Buckets(tasks []task.Task, now time.Time) []Bucket {
	groups := Group(tasks, now)
	var out []Bucket
	for _, c := range task.All() {
		if g := groups[c.Bucket()]; len(g) > 0 {
			out = append(out, Bucket{Label: c.Bucket(), Category: c, Tasks: g})
		}
	}
	if g := groups[task.OtherBucket]; len(g) > 0 {
		out = append(out, Bucket{Label: task.OtherBucket, Tasks: g})
	}
	return out
}

// Flatten returns the tasks of buckets in display order.
func Flatten(buckets []Bucket) []task.Task {
	var out []task.Task
	for _, b := range buckets {
		out = append(out, b.Tasks...)
	}
	return out
}

// Summary renders the dashboard header line, e.g. "2 Do, 1 Defer".
// Dropped tasks are not mentioned.
func Summary(tasks []task.Task) string {
	counts := map[task.Category]int{}
	for _, t := range tasks {
		counts[t.Category]++
	}
	var parts []string
	for _, c := range []task.Category{task.Do, task.Defer, task.Delegate} {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c.DisplayName()))
		}
	}
	if len(parts) == 0 {
		return "No active tasks"
	}
	return strings.Join(parts, ", ")
}
