package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"tableflip.dev/planner/pkg/attachment"
	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/session"
	"tableflip.dev/planner/pkg/store"
)

// Service provides high-level operations over the planner's records. It
// resolves the owner from the session gate on every call and passes it to
// persistence explicitly, so UIs and CLIs can share logic without any
// ambient user state.
type Service struct {
	Gate        *session.Gate
	Persistence store.Persistence
	Attachments attachment.Store
}

func (s *Service) owner() (string, error) {
	if s.Gate == nil {
		return "", errors.New("app: no session gate configured")
	}
	return s.Gate.OwnerID()
}

func (s *Service) persistence() (store.Persistence, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence, nil
}

// EventInput is the caller-supplied part of a calendar event.
type EventInput struct {
	Title    string
	Note     string
	Start    time.Time
	End      *time.Time
	Category record.EventCategory
	AllDay   bool
}

// CreateEvent stores a new calendar event for the signed-in user. All-day
// events are normalized to span from midnight to 23:59 local time so the
// day grouping and the picker agree on which day they belong to.
func (s *Service) CreateEvent(ctx context.Context, in EventInput) (record.Event, error) {
	p, err := s.persistence()
	if err != nil {
		return record.Event{}, err
	}
	owner, err := s.owner()
	if err != nil {
		return record.Event{}, err
	}

	start := in.Start
	end := in.End
	if in.AllDay && !start.IsZero() {
		start = startOfDay(start)
		last := start
		if end != nil {
			last = *end
		}
		e := endOfDay(last)
		end = &e
	}

	e := record.Event{
		Title:     strings.TrimSpace(in.Title),
		Note:      in.Note,
		Category:  in.Category,
		AllDay:    in.AllDay,
		StartDate: record.Timestamp{Time: start},
	}
	if end != nil {
		e.EndDate = &record.Timestamp{Time: *end}
	}
	return p.CreateEvent(ctx, owner, e)
}

// UpdateEvent replaces the caller-editable fields of an event.
func (s *Service) UpdateEvent(ctx context.Context, id string, in EventInput) error {
	p, err := s.persistence()
	if err != nil {
		return err
	}
	owner, err := s.owner()
	if err != nil {
		return err
	}

	start := in.Start
	end := in.End
	if in.AllDay && !start.IsZero() {
		start = startOfDay(start)
		last := start
		if end != nil {
			last = *end
		}
		e := endOfDay(last)
		end = &e
	}
	if end != nil && end.Before(start) {
		return &store.ValidationError{Field: "endDate"}
	}

	fields := map[string]any{
		"title":     strings.TrimSpace(in.Title),
		"note":      in.Note,
		"category":  string(in.Category),
		"allDay":    in.AllDay,
		"startDate": record.FormatTime(start),
	}
	if end != nil {
		fields["endDate"] = record.FormatTime(*end)
	} else {
		fields["endDate"] = nil
	}
	return p.Update(ctx, owner, record.KindEvent, id, fields)
}

// Events lists the user's calendar events sorted by start date.
func (s *Service) Events(ctx context.Context) ([]record.Event, error) {
	p, err := s.persistence()
	if err != nil {
		return nil, err
	}
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	return p.ListEvents(ctx, owner)
}

// DeleteEvent removes an event. Deleting an id that is already gone is not
// an error.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.delete(ctx, record.KindEvent, id)
}

// AddTask stores a new to-do item. Unknown categories land in the default
// important bucket.
func (s *Service) AddTask(ctx context.Context, text string, category record.TaskCategory) (record.Task, error) {
	p, err := s.persistence()
	if err != nil {
		return record.Task{}, err
	}
	owner, err := s.owner()
	if err != nil {
		return record.Task{}, err
	}
	return p.CreateTask(ctx, owner, record.Task{
		Text:     strings.TrimSpace(text),
		Category: record.NormalizeTaskCategory(category),
	})
}

// Tasks lists the user's to-dos in creation order.
func (s *Service) Tasks(ctx context.Context) ([]record.Task, error) {
	p, err := s.persistence()
	if err != nil {
		return nil, err
	}
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	return p.ListTasks(ctx, owner)
}

// ToggleTask flips a task between open and done.
func (s *Service) ToggleTask(ctx context.Context, id string) (record.Task, error) {
	p, err := s.persistence()
	if err != nil {
		return record.Task{}, err
	}
	owner, err := s.owner()
	if err != nil {
		return record.Task{}, err
	}

	tasks, err := p.ListTasks(ctx, owner)
	if err != nil {
		return record.Task{}, err
	}
	for _, t := range tasks {
		if t.ID != id {
			continue
		}
		t.Completed = !t.Completed
		if err := p.Update(ctx, owner, record.KindTask, id, map[string]any{
			"completed": t.Completed,
		}); err != nil {
			return record.Task{}, err
		}
		return t, nil
	}
	return record.Task{}, store.ErrNotFound
}

// EditTask updates a task's text and category.
func (s *Service) EditTask(ctx context.Context, id, text string, category record.TaskCategory) error {
	p, err := s.persistence()
	if err != nil {
		return err
	}
	owner, err := s.owner()
	if err != nil {
		return err
	}
	return p.Update(ctx, owner, record.KindTask, id, map[string]any{
		"text":     strings.TrimSpace(text),
		"category": string(record.NormalizeTaskCategory(category)),
	})
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.delete(ctx, record.KindTask, id)
}

// CreateNote stores a new text note.
func (s *Service) CreateNote(ctx context.Context, title, text string) (record.Note, error) {
	p, err := s.persistence()
	if err != nil {
		return record.Note{}, err
	}
	owner, err := s.owner()
	if err != nil {
		return record.Note{}, err
	}
	return p.CreateNote(ctx, owner, record.Note{
		Title: strings.TrimSpace(title),
		Text:  text,
	})
}

// SaveVoiceNote uploads a recording to attachment storage and stores the
// note metadata pointing at it. If the upload fails no note is written.
func (s *Service) SaveVoiceNote(ctx context.Context, src io.Reader) (record.Note, error) {
	p, err := s.persistence()
	if err != nil {
		return record.Note{}, err
	}
	if s.Attachments == nil {
		return record.Note{}, errors.New("app: no attachment store configured")
	}
	owner, err := s.owner()
	if err != nil {
		return record.Note{}, err
	}

	obj, err := s.Attachments.Put(ctx, owner, src)
	if err != nil {
		return record.Note{}, fmt.Errorf("app: store recording: %w", err)
	}
	n, err := p.CreateNote(ctx, owner, record.Note{
		URI:      obj.URL,
		URL:      obj.URL,
		FileName: obj.FileName,
	})
	if err != nil {
		// The note never existed; don't leave the object orphaned.
		_ = s.Attachments.Delete(ctx, obj.FileName)
		return record.Note{}, err
	}
	return n, nil
}

// Notes lists the user's notes newest first.
func (s *Service) Notes(ctx context.Context) ([]record.Note, error) {
	p, err := s.persistence()
	if err != nil {
		return nil, err
	}
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	return p.ListNotes(ctx, owner)
}

// DeleteNote removes a note, deleting its stored attachment first. If the
// attachment cannot be removed the metadata stays, so a later retry can
// still find the object; the store never ends up with an unreachable blob.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	p, err := s.persistence()
	if err != nil {
		return err
	}
	owner, err := s.owner()
	if err != nil {
		return err
	}

	n, err := p.GetNote(ctx, owner, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if n.FileName != "" {
		if s.Attachments == nil {
			return errors.New("app: no attachment store configured")
		}
		if err := s.Attachments.Delete(ctx, n.FileName); err != nil {
			return fmt.Errorf("app: delete attachment: %w", err)
		}
	}
	return p.Delete(ctx, owner, record.KindNote, id)
}

func (s *Service) delete(ctx context.Context, kind record.Kind, id string) error {
	p, err := s.persistence()
	if err != nil {
		return err
	}
	owner, err := s.owner()
	if err != nil {
		return err
	}
	return p.Delete(ctx, owner, kind, id)
}

// WatchEvents subscribes to the signed-in user's calendar. Every change
// delivers the full current list; refresh failures arrive on the error
// channel so views can show them instead of an empty-looking list.
func (s *Service) WatchEvents(ctx context.Context) (<-chan []record.Event, <-chan error, store.CancelFunc, error) {
	p, err := s.persistence()
	if err != nil {
		return nil, nil, nil, err
	}
	owner, err := s.owner()
	if err != nil {
		return nil, nil, nil, err
	}
	return p.SubscribeEvents(ctx, owner)
}

// WatchTasks subscribes to the signed-in user's to-dos.
func (s *Service) WatchTasks(ctx context.Context) (<-chan []record.Task, <-chan error, store.CancelFunc, error) {
	p, err := s.persistence()
	if err != nil {
		return nil, nil, nil, err
	}
	owner, err := s.owner()
	if err != nil {
		return nil, nil, nil, err
	}
	return p.SubscribeTasks(ctx, owner)
}

// WatchNotes subscribes to the signed-in user's notes.
func (s *Service) WatchNotes(ctx context.Context) (<-chan []record.Note, <-chan error, store.CancelFunc, error) {
	p, err := s.persistence()
	if err != nil {
		return nil, nil, nil, err
	}
	owner, err := s.owner()
	if err != nil {
		return nil, nil, nil, err
	}
	return p.SubscribeNotes(ctx, owner)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 23, 59, 0, 0, time.Local)
}
