// Package timeutil parses the human-friendly date and time arguments the
// CLI accepts.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
	"Jan 2 2006",
	"Jan 2",
}

// ParseDate parses a date argument relative to now. Accepts relative words
// ("today", "tomorrow", "monday".."sunday", meaning the next such day) and
// a handful of absolute layouts, all interpreted in local time.
func ParseDate(input string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	switch strings.ToLower(trimmed) {
	case "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "tomorrow":
		return startOfDay(now).AddDate(0, 0, 1), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if wd, ok := weekdays[strings.ToLower(trimmed)]; ok {
		return nextWeekday(now, wd), nil
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, trimmed, time.Local)
		if err != nil {
			continue
		}
		// Layouts without a year mean the current year.
		if t.Year() == 0 {
			t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", trimmed)
}

// ParseDateTime parses a date argument plus an optional "15:04" clock.
func ParseDateTime(date, clock string, now time.Time) (time.Time, error) {
	day, err := ParseDate(date, now)
	if err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(clock) == "" {
		return day, nil
	}
	t, err := time.ParseInLocation("15:04", strings.TrimSpace(clock), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized time %q", clock)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// nextWeekday returns the upcoming occurrence of wd strictly after today.
func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return startOfDay(now).AddDate(0, 0, days)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
