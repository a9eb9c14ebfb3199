package edit

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/planner/pkg/app"
	"tableflip.dev/planner/pkg/attachment"
	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/session"
	"tableflip.dev/planner/pkg/store"
)

type testConfig string

func (c testConfig) BasePath() string { return string(c) }

func newTestService(t *testing.T) *app.Service {
	t.Helper()

	gate, err := session.Open(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("open gate: %v", err)
	}
	if _, err := gate.SignUp("me@example.com", "secret1"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	p, err := store.Load(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	att, err := attachment.NewFileStore(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("attachments: %v", err)
	}
	return &app.Service{Gate: gate, Persistence: p, Attachments: att}
}

func seedEvent(t *testing.T, svc *app.Service) record.Event {
	t.Helper()

	start := time.Date(2026, 9, 3, 10, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)
	e, err := svc.CreateEvent(context.Background(), app.EventInput{
		Title:    "standup",
		Note:     "bring the demo laptop",
		Start:    start,
		End:      &end,
		Category: record.CategorySchool,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func TestEditEventTitleOnlyKeepsSchedule(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seeded := seedEvent(t, svc)

	s := Event{ID: seeded.ID, Title: "weekly sync", Service: svc}
	if err := s.Do(ctx); err != nil {
		t.Fatalf("edit: %v", err)
	}

	all, err := svc.Events(ctx)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one event, got %d", len(all))
	}
	got := all[0]
	if got.Title != "weekly sync" {
		t.Fatalf("title not edited: %q", got.Title)
	}
	if !got.StartDate.Equal(seeded.StartDate.Time) {
		t.Fatalf("title-only edit moved the start: %v -> %v", seeded.StartDate, got.StartDate)
	}
	if got.EndDate == nil || !got.EndDate.Equal(seeded.EndDate.Time) {
		t.Fatalf("title-only edit changed the end: %v", got.EndDate)
	}
	if got.Category != record.CategorySchool {
		t.Fatalf("title-only edit changed the category: %q", got.Category)
	}
	if got.Note != "bring the demo laptop" {
		t.Fatalf("title-only edit dropped the note: %q", got.Note)
	}
	if got.AllDay {
		t.Fatal("title-only edit set all-day")
	}
}

func TestEditEventRescheduleMovesEndWithIt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seeded := seedEvent(t, svc)

	s := Event{ID: seeded.ID, On: "2026-09-10", Service: svc}
	if err := s.Do(ctx); err != nil {
		t.Fatalf("edit: %v", err)
	}

	all, err := svc.Events(ctx)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	got := all[0]
	wantStart := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	if !got.StartDate.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", got.StartDate, wantStart)
	}
	wantEnd := time.Date(2026, 9, 10, 11, 0, 0, 0, time.Local)
	if got.EndDate == nil || !got.EndDate.Equal(wantEnd) {
		t.Fatalf("end = %v, want %v", got.EndDate, wantEnd)
	}
	if got.Title != "standup" {
		t.Fatalf("reschedule changed the title: %q", got.Title)
	}
}

func TestEditEventCategoryOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seeded := seedEvent(t, svc)

	c := record.CategoryWork
	s := Event{ID: seeded.ID, Category: &c, Service: svc}
	if err := s.Do(ctx); err != nil {
		t.Fatalf("edit: %v", err)
	}

	all, err := svc.Events(ctx)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	got := all[0]
	if got.Category != record.CategoryWork {
		t.Fatalf("category = %q, want work", got.Category)
	}
	if got.Title != "standup" || !got.StartDate.Equal(seeded.StartDate.Time) {
		t.Fatalf("category-only edit touched other fields: %+v", got)
	}
}

func TestEditEventUnknownID(t *testing.T) {
	svc := newTestService(t)

	s := Event{ID: "no-such-id", Title: "anything", Service: svc}
	if err := s.Do(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
