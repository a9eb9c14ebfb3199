package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/planner/pkg/commands/options"
	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit something",
		Example: `
planner edit task <id> new text
planner edit event <id> "new title" --on=friday --at=10:00
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	editTask(cmd)
	editEvent(cmd)

	topLevel.AddCommand(cmd)
}

func editTask(topLevel *cobra.Command) {
	no := &options.AddOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "task <id> <text>",
		Short: "Edit a to-do item",
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 2 {
				return errors.New("requires an id and the new text")
			}
			io.ID = args[0]
			no.Text = strings.Join(args[1:], " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return err
			}
			s := edit.Task{
				ID:       io.ID,
				Text:     no.Text,
				Category: record.TaskCategory(no.Category),
				Service:  svc,
			}
			return s.Do(context.Background())
		},
	}

	options.AddTaskArgs(cmd, no)
	topLevel.AddCommand(cmd)
}

func editEvent(topLevel *cobra.Command) {
	no := &options.AddOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "event <id> <title>",
		Short: "Edit a calendar event",
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 2 {
				return errors.New("requires an id and the new title")
			}
			io.ID = args[0]
			no.Title = strings.Join(args[1:], " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			svc, err := newService()
			if err != nil {
				return err
			}
			s := edit.Event{
				ID:      io.ID,
				Title:   no.Title,
				Service: svc,
			}
			// Only flags the user actually set are edited; everything else
			// keeps the stored value, including the flag defaults.
			if cmd.Flags().Changed("on") {
				s.On = no.OnString
			}
			if cmd.Flags().Changed("at") {
				s.At = no.AtString
			}
			if cmd.Flags().Changed("end") {
				s.End = no.EndString
			}
			if cmd.Flags().Changed("note") {
				s.Note = &no.Note
			}
			if cmd.Flags().Changed("category") {
				c := record.EventCategory(no.Category)
				s.Category = &c
			}
			if cmd.Flags().Changed("all-day") {
				s.AllDay = &no.AllDay
			}
			return s.Do(context.Background())
		},
	}

	options.AddEventArgs(cmd, no)
	topLevel.AddCommand(cmd)
}
