package edit

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/planner/pkg/app"
	"tableflip.dev/planner/pkg/printers"
	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/store"
	"tableflip.dev/planner/pkg/timeutil"
	"tableflip.dev/planner/pkg/viewmodel"
)

// Task rewrites a to-do's text and category.
type Task struct {
	ID       string
	Text     string
	Category record.TaskCategory

	Service *app.Service
}

func (n *Task) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not edit, no service")
	}
	if err := n.Service.EditTask(ctx, n.ID, n.Text, n.Category); err != nil {
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

// Event edits a calendar event. Unset fields mean "keep the stored value":
// the current event is loaded first and only what the caller set replaces
// it, so a title-only edit cannot move or recategorize the event.
type Event struct {
	ID    string
	Title string

	// Raw date and clock arguments; empty keeps the stored schedule.
	On  string
	At  string
	End string

	Note     *string
	Category *record.EventCategory
	AllDay   *bool

	Service *app.Service
}

func (n *Event) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not edit, no service")
	}

	all, err := n.Service.Events(ctx)
	if err != nil {
		return err
	}
	var cur *record.Event
	for i := range all {
		if all[i].ID == n.ID {
			cur = &all[i]
			break
		}
	}
	if cur == nil {
		return store.ErrNotFound
	}

	now := time.Now()
	start := cur.StartDate.Local()
	rescheduled := n.On != "" || n.At != ""
	if rescheduled {
		dateStr := n.On
		if dateStr == "" {
			dateStr = start.Format("2006-01-02")
		}
		clock := n.At
		if clock == "" && !cur.AllDay {
			clock = start.Format("15:04")
		}
		start, err = timeutil.ParseDateTime(dateStr, clock, now)
		if err != nil {
			return err
		}
	}

	var end *time.Time
	switch {
	case n.End != "":
		e, err := timeutil.ParseDateTime(start.Format("2006-01-02"), n.End, now)
		if err != nil {
			return err
		}
		end = &e
	case cur.EndDate != nil:
		e := cur.EndDate.Local()
		if rescheduled {
			// Keep the stored end clock, move it onto the edited day.
			e, err = timeutil.ParseDateTime(start.Format("2006-01-02"), e.Format("15:04"), now)
			if err != nil {
				return err
			}
		}
		end = &e
	}

	in := app.EventInput{
		Title:    cur.Title,
		Note:     cur.Note,
		Start:    start,
		End:      end,
		Category: cur.Category,
		AllDay:   cur.AllDay,
	}
	if n.Title != "" {
		in.Title = n.Title
	}
	if n.Note != nil {
		in.Note = *n.Note
	}
	if n.Category != nil {
		in.Category = *n.Category
	}
	if n.AllDay != nil {
		in.AllDay = *n.AllDay
	}

	if err := n.Service.UpdateEvent(ctx, n.ID, in); err != nil {
		return err
	}

	all, err = n.Service.Events(ctx)
	if err != nil {
		return err
	}
	buckets := viewmodel.GroupByLocalDay(all)
	key := viewmodel.KeyFor(start)

	pp := printers.PrettyPrint{}
	pp.Day(viewmodel.DayEntry{Key: key, Date: key.Date(), Events: buckets[key]})
	return nil
}
