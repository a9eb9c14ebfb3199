package add

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"tableflip.dev/planner/pkg/app"
	"tableflip.dev/planner/pkg/printers"
	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/viewmodel"
)

// Event adds a calendar event and echoes the day it landed on.
type Event struct {
	Title    string
	Note     string
	Start    time.Time
	End      *time.Time
	Category record.EventCategory
	AllDay   bool

	Service *app.Service
}

func (n *Event) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	e, err := n.Service.CreateEvent(ctx, app.EventInput{
		Title:    n.Title,
		Note:     n.Note,
		Start:    n.Start,
		End:      n.End,
		Category: n.Category,
		AllDay:   n.AllDay,
	})
	if err != nil {
		return err
	}

	all, err := n.Service.Events(ctx)
	if err != nil {
		return err
	}
	buckets := viewmodel.GroupByLocalDay(all)
	key := viewmodel.KeyFor(e.StartDate.Local())

	pp := printers.PrettyPrint{}
	pp.Day(viewmodel.DayEntry{Key: key, Date: key.Date(), Events: buckets[key]})
	return nil
}

// Task adds a to-do item and echoes the updated sections.
type Task struct {
	Text     string
	Category record.TaskCategory

	Service *app.Service
}

func (n *Task) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	if _, err := n.Service.AddTask(ctx, n.Text, n.Category); err != nil {
		return err
	}
	all, err := n.Service.Tasks(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Tasks(viewmodel.GroupByCategory(all))
	return nil
}

// Note adds a text note, or a voice note when VoicePath is set.
type Note struct {
	Title     string
	Text      string
	VoicePath string

	Service *app.Service
}

func (n *Note) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}

	if n.VoicePath != "" {
		f, err := os.Open(n.VoicePath)
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		defer f.Close()
		if _, err := n.Service.SaveVoiceNote(ctx, f); err != nil {
			return err
		}
	} else {
		if _, err := n.Service.CreateNote(ctx, n.Title, n.Text); err != nil {
			return err
		}
	}

	all, err := n.Service.Notes(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Notes(all)
	return nil
}
