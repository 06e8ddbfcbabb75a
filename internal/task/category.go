package task

import "strings"

// Category is one of the four triage buckets a task is filed under.
type Category string

const (
	Do       Category = "do"
	Defer    Category = "defer"
	Delegate Category = "delegate"
	Drop     Category = "drop"
)

// OtherBucket labels tasks whose category cannot be resolved.
const OtherBucket = "Other"

type categoryInfo struct {
	listTitle string
	display   string
	shortcut  string
	icon      string
	bucket    string
}

var categories = map[Category]categoryInfo{
	Do:       {listTitle: "4D - Do", display: "Do", shortcut: "1", icon: "1.square", bucket: "🔥 Do Today"},
	Defer:    {listTitle: "4D - Defer", display: "Defer", shortcut: "2", icon: "2.square", bucket: "📅 Deferred"},
	Delegate: {listTitle: "4D - Delegate", display: "Delegate", shortcut: "3", icon: "3.square", bucket: "👥 Delegated"},
	Drop:     {listTitle: "4D - Drop", display: "Drop", shortcut: "4", icon: "4.square", bucket: "🗂 Dropped"},
}

// All returns the categories in shortcut order.
func All() []Category {
	return []Category{Do, Defer, Delegate, Drop}
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// ListTitle is the name of the store list backing the category.
func (c Category) ListTitle() string {
	return categories[c].listTitle
}

func (c Category) DisplayName() string {
	return categories[c].display
}

func (c Category) Shortcut() string {
	return categories[c].shortcut
}

func (c Category) Icon() string {
	return categories[c].icon
}

// Bucket is the grouping label used by the dashboard and statistics.
func (c Category) Bucket() string {
	if info, ok := categories[c]; ok {
		return info.bucket
	}
	return OtherBucket
}

func (c Category) String() string {
	if !c.Valid() {
		return string(c)
	}
	return c.DisplayName()
}

// FromShortcut maps the keys "1".."4" to a category.
func FromShortcut(key string) (Category, bool) {
	for _, c := range All() {
		if categories[c].shortcut == key {
			return c, true
		}
	}
	return "", false
}

// FromListTitle finds the category whose backing list carries title.
func FromListTitle(title string) (Category, bool) {
	for _, c := range All() {
		if categories[c].listTitle == title {
			return c, true
		}
	}
	return "", false
}

// Parse accepts a category id, display name or shortcut, case-insensitively.
func Parse(v string) (Category, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if c, ok := FromShortcut(v); ok {
		return c, true
	}
	for _, c := range All() {
		if string(c) == v || strings.ToLower(categories[c].display) == v {
			return c, true
		}
	}
	return "", false
}
