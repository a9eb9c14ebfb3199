// Package viewmodel turns flat record streams into the shapes the calendar
// and to-do views render: day buckets keyed by local date, week windows,
// and category sections. Everything here is pure data transformation with
// no I/O; malformed input degrades instead of erroring so a bad document
// from the store can never block rendering.
package viewmodel

import (
	"fmt"
	"sort"
	"time"

	"tableflip.dev/planner/pkg/record"
)

// DayKey is a calendar date in the owner's local timezone, formatted
// YYYY-MM-DD. The fixed-width zero-padded format is a load-bearing
// invariant: lexicographic order of keys equals chronological order.
type DayKey string

// KeyFor derives the day key from local calendar fields, never from the
// UTC date. An event at 11 PM local time belongs to the local day even
// when its instant already falls on the next UTC day.
func KeyFor(t time.Time) DayKey {
	t = t.Local()
	return DayKey(fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()))
}

// Date parses the key back into a local midnight. Invalid keys produce the
// zero time.
func (k DayKey) Date() time.Time {
	t, err := time.ParseInLocation("2006-01-02", string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// GroupByLocalDay buckets events by the local calendar date of their start.
// Events with no start date land in today's bucket rather than being
// dropped. Input order is preserved within a bucket, and the result depends
// only on the input, so repeated full-snapshot delivery is idempotent.
func GroupByLocalDay(events []record.Event) map[DayKey][]record.Event {
	return GroupByLocalDayAt(events, time.Now())
}

// GroupByLocalDayAt is GroupByLocalDay with an explicit "now" for the
// missing-start fallback.
func GroupByLocalDayAt(events []record.Event, now time.Time) map[DayKey][]record.Event {
	buckets := make(map[DayKey][]record.Event, len(events))
	for _, e := range events {
		at := e.StartDate.Time
		if at.IsZero() {
			at = now
		}
		key := KeyFor(at)
		buckets[key] = append(buckets[key], e)
	}
	return buckets
}

// SortedDayKeys returns the bucket keys in chronological order. Plain
// string sort; see the DayKey format invariant.
func SortedDayKeys(buckets map[DayKey][]record.Event) []DayKey {
	keys := make([]DayKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// DayEntry pairs a day with its (possibly empty) bucket.
type DayEntry struct {
	Key    DayKey
	Date   time.Time
	Events []record.Event
}

// Days flattens buckets into the ordered "all" view: one entry per day
// that has events, ascending.
func Days(buckets map[DayKey][]record.Event) []DayEntry {
	keys := SortedDayKeys(buckets)
	days := make([]DayEntry, 0, len(keys))
	for _, k := range keys {
		days = append(days, DayEntry{Key: k, Date: k.Date(), Events: buckets[k]})
	}
	return days
}

// WeekWindow returns exactly 7 entries for the Monday-start week containing
// anchor, Monday through Sunday, each paired with its bucket (possibly
// empty). Offset from Monday is (weekday+6) mod 7 with Go's Sunday==0
// numbering.
func WeekWindow(anchor time.Time, buckets map[DayKey][]record.Event) []DayEntry {
	anchor = anchor.Local()
	diff := (int(anchor.Weekday()) + 6) % 7
	monday := time.Date(anchor.Year(), anchor.Month(), anchor.Day()-diff, 0, 0, 0, 0, anchor.Location())

	week := make([]DayEntry, 0, 7)
	for i := 0; i < 7; i++ {
		// Add days via Date so DST transitions cannot skip or repeat a key.
		d := time.Date(monday.Year(), monday.Month(), monday.Day()+i, 0, 0, 0, 0, monday.Location())
		key := KeyFor(d)
		week = append(week, DayEntry{Key: key, Date: d, Events: buckets[key]})
	}
	return week
}

// TaskSection is one fixed category bucket of the to-do view.
type TaskSection struct {
	Category record.TaskCategory
	Tasks    []record.Task
}

// GroupByCategory splits tasks into the fixed sections important,
// not_important, reminder. Unknown or empty categories fall into the
// default section. Within a section incomplete tasks come before completed
// ones; relative order is otherwise preserved.
func GroupByCategory(tasks []record.Task) []TaskSection {
	sections := make([]TaskSection, 0, 3)
	for _, cat := range record.TaskCategories() {
		var open, done []record.Task
		for _, t := range tasks {
			if record.NormalizeTaskCategory(t.Category) != cat {
				continue
			}
			if t.Completed {
				done = append(done, t)
			} else {
				open = append(open, t)
			}
		}
		sections = append(sections, TaskSection{
			Category: cat,
			Tasks:    append(open, done...),
		})
	}
	return sections
}

// MonthLabel names the month of the first event's start date, or of now
// when the list is empty, matching the calendar header.
func MonthLabel(events []record.Event, now time.Time) string {
	base := now
	if len(events) > 0 && !events[0].StartDate.IsZero() {
		base = events[0].StartDate.Time
	}
	return base.Local().Month().String()
}
