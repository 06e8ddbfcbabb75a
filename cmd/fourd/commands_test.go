package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"fourd/internal/stats"
	"fourd/internal/task"
)

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", configPath))
	err := cmd.Execute()
	return out.String(), err
}

var filedID = regexp.MustCompile(`\(([0-9a-f-]{36})\)`)

func TestAddListDoneUndone(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	out, err := run(t, configPath, "add", "-c", "defer", "!!", "call", "the", "bank", "#finance")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out, `Filed "call the bank #finance" under Defer`) {
		t.Fatalf("add output = %q", out)
	}
	m := filedID.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no id in %q", out)
	}
	id := m[1]

	out, err = run(t, configPath, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"1 Defer", task.Defer.Bucket() + " (1)", "!!", "call the bank", id[:8]} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	if out, err = run(t, configPath, "done", id[:8]); err != nil {
		t.Fatalf("done failed: %v", err)
	}
	if !strings.Contains(out, "Completed 1 of 1") {
		t.Errorf("done output = %q", out)
	}
	if out, _ = run(t, configPath, "list"); !strings.Contains(out, "No active tasks") {
		t.Errorf("list after done = %q", out)
	}

	// the short id list printed still resolves once the task is completed
	if _, err = run(t, configPath, "undone", id[:8]); err != nil {
		t.Fatalf("undone failed: %v", err)
	}
	if out, _ = run(t, configPath, "list"); !strings.Contains(out, "call the bank") {
		t.Errorf("task not reopened: %q", out)
	}
}

func TestMoveDeferAndRemove(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	out, err := run(t, configPath, "add", "write report")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	id := filedID.FindStringSubmatch(out)[1]

	if out, err = run(t, configPath, "move", id, "3"); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if !strings.Contains(out, "to Delegate") {
		t.Errorf("move output = %q", out)
	}
	if out, _ = run(t, configPath, "list"); !strings.Contains(out, task.Delegate.Bucket()) {
		t.Errorf("list after move = %q", out)
	}

	if out, err = run(t, configPath, "defer", "--days", "2", id); err != nil {
		t.Fatalf("defer failed: %v", err)
	}
	if !strings.Contains(out, "Deferred 1 of 1 by 2 days") {
		t.Errorf("defer output = %q", out)
	}

	if _, err = run(t, configPath, "rm", id); err != nil {
		t.Fatalf("rm failed: %v", err)
	}
	if _, err = run(t, configPath, "rm", id); err == nil {
		t.Errorf("second rm should report a missing task")
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	if _, err := run(t, configPath, "add", "-c", "later", "x"); err == nil {
		t.Errorf("unknown category should fail")
	}
	if _, err := run(t, configPath, "add", "!!!"); err == nil {
		t.Errorf("marker-only text should fail")
	}
	if _, err := run(t, configPath, "add", strings.Repeat("a", task.MaxTitleLength+1)); err == nil {
		t.Errorf("over-long text should fail")
	}
}

func TestPrintStats(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	yesterday := task.DateOf(now.AddDate(0, 0, -1))
	tasks := []task.Task{
		{ID: "a", Title: "a", Category: task.Do, Priority: task.PriorityHigh, Due: &yesterday},
		{ID: "b", Title: "b", Category: task.Defer},
	}

	var out bytes.Buffer
	printStats(&out, stats.Compute(tasks, now))
	got := out.String()
	for _, want := range []string{"Total 2, overdue 1", "High priority 1", task.Do.Bucket(), "No Due Date"} {
		if !strings.Contains(strings.ToLower(got), strings.ToLower(want)) {
			t.Errorf("stats output missing %q:\n%s", want, got)
		}
	}
}
