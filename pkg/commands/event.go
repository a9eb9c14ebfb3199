package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/planner/pkg/commands/options"
	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/runner/add"
	"tableflip.dev/planner/pkg/timeutil"
)

func addEvent(topLevel *cobra.Command) {
	no := &options.AddOptions{}

	cmd := &cobra.Command{
		Use:   "event",
		Short: "Add a calendar event",
		Example: `
planner add event "dentist" --on=2026-09-03 --at=14:30 --end=15:00
planner add event "conference" --on=friday --all-day --category=Work
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			no.Title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			now := time.Now()
			start, err := timeutil.ParseDateTime(no.OnString, no.AtString, now)
			if err != nil {
				return err
			}
			var end *time.Time
			if no.EndString != "" {
				e, err := timeutil.ParseDateTime(no.OnString, no.EndString, now)
				if err != nil {
					return err
				}
				end = &e
			}

			svc, err := newService()
			if err != nil {
				return err
			}
			s := add.Event{
				Title:    no.Title,
				Note:     no.Note,
				Start:    start,
				End:      end,
				Category: record.EventCategory(no.Category),
				AllDay:   no.AllDay,
				Service:  svc,
			}
			return s.Do(context.Background())
		},
	}

	options.AddEventArgs(cmd, no)
	topLevel.AddCommand(cmd)
}
