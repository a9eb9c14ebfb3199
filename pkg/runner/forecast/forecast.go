package forecast

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/planner/pkg/printers"
	"tableflip.dev/planner/pkg/session"
	"tableflip.dev/planner/pkg/weather"
)

// Forecast prints the current conditions, the hourly strip, and the merged
// reminder list. A denied location degrades to reminders only.
type Forecast struct {
	Locator   weather.Locator
	Client    *weather.Client
	Reminders *weather.Reminders
	Gate      *session.Gate
}

func (n *Forecast) Do(ctx context.Context) error {
	if n.Client == nil {
		n.Client = weather.NewClient()
	}

	owner := ""
	if n.Gate != nil {
		if id, ok := n.Gate.Current(); ok {
			owner = id.ID
		}
	}
	custom := []string{}
	if n.Reminders != nil {
		custom = n.Reminders.List(owner)
	}

	if n.Locator == nil {
		return errors.New("can not fetch forecast, no locator")
	}
	at, err := n.Locator.Locate(ctx)
	if err != nil {
		if weather.IsPermission(err) {
			fmt.Println("location permission denied; showing reminders only")
			pp := printers.PrettyPrint{}
			pp.Weather(weather.Forecast{}, custom)
			return nil
		}
		return err
	}

	f, err := n.Client.Fetch(ctx, at)
	if err != nil {
		return err
	}

	merged := weather.MergeReminders(weather.SuggestActions(f.Current.Label), custom)
	pp := printers.PrettyPrint{}
	pp.Weather(f, merged)
	return nil
}

// AddReminder appends a custom reminder for the signed-in user.
type AddReminder struct {
	Text      string
	Reminders *weather.Reminders
	Gate      *session.Gate
}

func (n *AddReminder) Do(ctx context.Context) error {
	if n.Reminders == nil {
		return errors.New("no reminder store")
	}
	owner := ""
	if n.Gate != nil {
		if id, ok := n.Gate.Current(); ok {
			owner = id.ID
		}
	}
	return n.Reminders.Add(owner, n.Text)
}

// RemoveReminder deletes the first custom reminder matching Text.
type RemoveReminder struct {
	Text      string
	Reminders *weather.Reminders
	Gate      *session.Gate
}

func (n *RemoveReminder) Do(ctx context.Context) error {
	if n.Reminders == nil {
		return errors.New("no reminder store")
	}
	owner := ""
	if n.Gate != nil {
		if id, ok := n.Gate.Current(); ok {
			owner = id.ID
		}
	}
	return n.Reminders.Remove(owner, n.Text)
}
