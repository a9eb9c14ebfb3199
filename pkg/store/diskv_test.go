package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/planner/pkg/record"
)

type testConfig string

func (c testConfig) BasePath() string { return string(c) }

func load(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return p
}

func TestCreateEventAssignsMeta(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	e, err := p.CreateEvent(ctx, "owner-1", record.Event{
		Title:     "standup",
		StartDate: record.Timestamp{Time: time.Now()},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == "" || e.OwnerID != "owner-1" {
		t.Fatalf("meta not assigned: %+v", e.Meta)
	}
	if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not assigned: %+v", e.Meta)
	}
}

func TestCreateEventValidation(t *testing.T) {
	p := load(t)
	ctx := context.Background()
	now := time.Now()

	cases := []struct {
		name  string
		e     record.Event
		field string
	}{
		{"blank title", record.Event{Title: "   ", StartDate: record.Timestamp{Time: now}}, "title"},
		{"no start", record.Event{Title: "x"}, "startDate"},
		{"end before start", record.Event{
			Title:     "x",
			StartDate: record.Timestamp{Time: now},
			EndDate:   &record.Timestamp{Time: now.Add(-time.Hour)},
		}, "endDate"},
	}
	for _, tc := range cases {
		_, err := p.CreateEvent(ctx, "owner-1", tc.e)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("%s: field = %q, want %q", tc.name, ve.Field, tc.field)
		}
	}
}

func TestCreateRequiresOwner(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	if _, err := p.CreateEvent(ctx, "", record.Event{Title: "x", StartDate: record.Timestamp{Time: time.Now()}}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := p.CreateTask(ctx, "", record.Task{Text: "x"}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := p.Delete(ctx, "", record.KindTask, "id"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestTasksListInCreationOrder(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	// Rapid creates land on distinct instants per owner.
	for _, text := range []string{"first", "second", "third"} {
		if _, err := p.CreateTask(ctx, "owner-1", record.Task{Text: text}); err != nil {
			t.Fatalf("create %s: %v", text, err)
		}
	}

	all, err := p.ListTasks(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(all))
	}
	if all[0].Text != "first" || all[1].Text != "second" || all[2].Text != "third" {
		t.Fatalf("creation order lost: %v", all)
	}
}

func TestNotesListNewestFirst(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	for _, title := range []string{"old", "new"} {
		if _, err := p.CreateNote(ctx, "owner-1", record.Note{Title: title}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	all, err := p.ListNotes(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all[0].Title != "new" || all[1].Title != "old" {
		t.Fatalf("notes should list newest first: %v", all)
	}
}

func TestEventsSortedByStart(t *testing.T) {
	p := load(t)
	ctx := context.Background()
	base := time.Now()

	for _, d := range []int{3, 1, 2} {
		_, err := p.CreateEvent(ctx, "owner-1", record.Event{
			Title:     time.Duration(d).String(),
			StartDate: record.Timestamp{Time: base.AddDate(0, 0, d)},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := p.ListEvents(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].StartDate.Before(all[i-1].StartDate.Time) {
			t.Fatalf("events out of order at %d: %v", i, all)
		}
	}
}

func TestOwnerIsolation(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	if _, err := p.CreateTask(ctx, "alice", record.Task{Text: "hers"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := p.CreateTask(ctx, "bob", record.Task{Text: "his"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	hers, err := p.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(hers) != 1 || hers[0].Text != "hers" {
		t.Fatalf("owner scoping leaked: %v", hers)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	created, err := p.CreateTask(ctx, "owner-1", record.Task{Text: "original", Category: record.TaskReminder})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := p.Update(ctx, "owner-1", record.KindTask, created.ID, map[string]any{
		"completed": true,
		"id":        "evil",
		"ownerId":   "mallory",
		"createdAt": "1999-01-01T00:00:00Z",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := p.ListTasks(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 task, got %d", len(all))
	}
	got := all[0]
	if !got.Completed {
		t.Fatal("completed flag not merged")
	}
	if got.Text != "original" || got.Category != record.TaskReminder {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.ID != created.ID || got.OwnerID != "owner-1" {
		t.Fatalf("identity fields must not be writable: %+v", got.Meta)
	}
	if !got.CreatedAt.Equal(created.CreatedAt.Time) {
		t.Fatalf("createdAt must not be writable: %v vs %v", got.CreatedAt, created.CreatedAt)
	}
	if !got.UpdatedAt.After(created.UpdatedAt.Time) {
		t.Fatal("updatedAt should be bumped")
	}
}

func TestUpdateRejectsBlankRequiredField(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	created, err := p.CreateTask(ctx, "owner-1", record.Task{Text: "keep"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	err = p.Update(ctx, "owner-1", record.KindTask, created.ID, map[string]any{"text": "   "})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "text" {
		t.Fatalf("expected text ValidationError, got %v", err)
	}
}

func TestUpdateMissing(t *testing.T) {
	p := load(t)
	err := p.Update(context.Background(), "owner-1", record.KindTask, "nope", map[string]any{"completed": true})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	created, err := p.CreateTask(ctx, "owner-1", record.Task{Text: "bye"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := p.Delete(ctx, "owner-1", record.KindTask, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Converged already; deleting again is fine.
	if err := p.Delete(ctx, "owner-1", record.KindTask, created.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := p.Delete(ctx, "owner-1", record.KindTask, "never-existed"); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
}

func TestGetNote(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	created, err := p.CreateNote(ctx, "owner-1", record.Note{Title: "find me"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := p.GetNote(ctx, "owner-1", created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "find me" {
		t.Fatalf("got %+v", got)
	}
	if _, err := p.GetNote(ctx, "owner-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
