package viewmodel

import (
	"reflect"
	"testing"
	"time"

	"tableflip.dev/planner/pkg/record"
)

// withZone pins the process-local timezone for the test so day bucketing is
// deterministic regardless of where the tests run.
func withZone(t *testing.T, offsetHours int) {
	t.Helper()
	prev := time.Local
	time.Local = time.FixedZone("test", offsetHours*3600)
	t.Cleanup(func() { time.Local = prev })
}

func ev(id string, at time.Time) record.Event {
	e := record.Event{Title: id, StartDate: record.Timestamp{Time: at}}
	e.ID = id
	return e
}

func TestKeyForUsesLocalDate(t *testing.T) {
	withZone(t, 13)

	// 23:30 UTC on Jan 1 is already Jan 2 at UTC+13.
	at := time.Date(2026, 1, 1, 23, 30, 0, 0, time.UTC)
	if got := KeyFor(at); got != "2026-01-02" {
		t.Fatalf("expected local day 2026-01-02, got %s", got)
	}
}

func TestKeyOrderIsChronological(t *testing.T) {
	withZone(t, 0)

	keys := []DayKey{
		KeyFor(time.Date(2026, 9, 2, 0, 0, 0, 0, time.Local)),
		KeyFor(time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)),
		KeyFor(time.Date(2026, 1, 12, 0, 0, 0, 0, time.Local)),
	}
	if !(keys[2] < keys[0] && keys[0] < keys[1]) {
		t.Fatalf("lexicographic order broke chronology: %v", keys)
	}
}

func TestGroupByLocalDayMidnightBoundary(t *testing.T) {
	withZone(t, -8)

	// 23:59 local; the UTC instant is on the next day.
	late := time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)
	if late.UTC().Day() == late.Day() {
		t.Fatal("test setup: expected UTC day to differ")
	}

	buckets := GroupByLocalDayAt([]record.Event{ev("late", late)}, late)
	if len(buckets["2026-03-14"]) != 1 {
		t.Fatalf("event bucketed on wrong day: %v", buckets)
	}
}

func TestGroupByLocalDayIdempotent(t *testing.T) {
	withZone(t, 0)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	events := []record.Event{
		ev("a", now),
		ev("b", now.Add(time.Hour)),
		ev("c", now.AddDate(0, 0, 1)),
	}

	first := GroupByLocalDayAt(events, now)
	second := GroupByLocalDayAt(events, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("regrouping the same snapshot changed the result")
	}
	if len(first[KeyFor(now)]) != 2 {
		t.Fatalf("expected 2 events on %s, got %d", KeyFor(now), len(first[KeyFor(now)]))
	}
	// Input order preserved within a bucket.
	if first[KeyFor(now)][0].ID != "a" || first[KeyFor(now)][1].ID != "b" {
		t.Fatalf("bucket order not preserved: %v", first[KeyFor(now)])
	}
}

func TestGroupByLocalDayMissingStart(t *testing.T) {
	withZone(t, 0)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	e := record.Event{Title: "no start"}
	buckets := GroupByLocalDayAt([]record.Event{e}, now)
	if len(buckets[KeyFor(now)]) != 1 {
		t.Fatalf("event without a start should land in today's bucket: %v", buckets)
	}
}

func TestWeekWindow(t *testing.T) {
	withZone(t, 0)

	// A Wednesday.
	anchor := time.Date(2026, 9, 2, 15, 0, 0, 0, time.Local)
	if anchor.Weekday() != time.Wednesday {
		t.Fatalf("test setup: expected Wednesday, got %v", anchor.Weekday())
	}

	week := WeekWindow(anchor, nil)
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}
	if week[0].Date.Weekday() != time.Monday {
		t.Fatalf("week should start Monday, got %v", week[0].Date.Weekday())
	}
	if week[0].Key != "2026-08-31" || week[6].Key != "2026-09-06" {
		t.Fatalf("wrong week window: %s .. %s", week[0].Key, week[6].Key)
	}
	for i := 1; i < 7; i++ {
		if !week[i].Date.After(week[i-1].Date) {
			t.Fatalf("week days out of order at %d", i)
		}
	}
}

func TestWeekWindowOnMonday(t *testing.T) {
	withZone(t, 0)

	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	week := WeekWindow(monday, nil)
	if week[0].Key != "2026-08-31" {
		t.Fatalf("Monday anchor should start its own week, got %s", week[0].Key)
	}
}

func TestWeekWindowOnSunday(t *testing.T) {
	withZone(t, 0)

	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.Local)
	week := WeekWindow(sunday, nil)
	if week[0].Key != "2026-08-31" || week[6].Key != "2026-09-06" {
		t.Fatalf("Sunday belongs to the preceding Monday's week, got %s .. %s", week[0].Key, week[6].Key)
	}
}

func TestDays(t *testing.T) {
	withZone(t, 0)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	events := []record.Event{
		ev("later", now.AddDate(0, 0, 5)),
		ev("sooner", now),
	}
	days := Days(GroupByLocalDayAt(events, now))
	if len(days) != 2 {
		t.Fatalf("expected 2 day entries, got %d", len(days))
	}
	if days[0].Events[0].ID != "sooner" {
		t.Fatalf("days not in chronological order: %v", days[0].Events)
	}
}

func TestGroupByCategory(t *testing.T) {
	mk := func(id string, cat record.TaskCategory, done bool) record.Task {
		tk := record.Task{Text: id, Category: cat, Completed: done}
		tk.ID = id
		return tk
	}
	tasks := []record.Task{
		mk("a", record.TaskImportant, true),
		mk("b", record.TaskImportant, false),
		mk("c", record.TaskReminder, false),
		mk("d", "bogus", false),
		mk("e", record.TaskNotImportant, false),
	}

	sections := GroupByCategory(tasks)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	if sections[0].Category != record.TaskImportant ||
		sections[1].Category != record.TaskNotImportant ||
		sections[2].Category != record.TaskReminder {
		t.Fatalf("section order wrong: %v", sections)
	}

	// Unknown category joins the default section; open before done.
	imp := sections[0].Tasks
	if len(imp) != 3 {
		t.Fatalf("important section should hold 3 tasks, got %d", len(imp))
	}
	if imp[0].ID != "b" || imp[1].ID != "d" || imp[2].ID != "a" {
		t.Fatalf("open tasks should precede done: %v", imp)
	}
}

func TestMonthLabel(t *testing.T) {
	withZone(t, 0)
	now := time.Date(2026, 7, 4, 0, 0, 0, 0, time.Local)

	if got := MonthLabel(nil, now); got != "July" {
		t.Fatalf("empty list should label the current month, got %s", got)
	}
	events := []record.Event{ev("x", time.Date(2026, 12, 25, 0, 0, 0, 0, time.Local))}
	if got := MonthLabel(events, now); got != "December" {
		t.Fatalf("label should follow the first event, got %s", got)
	}
}
