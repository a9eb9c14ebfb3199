package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/planner/pkg/commands/options"
	"tableflip.dev/planner/pkg/runner/add"
)

func addNote(topLevel *cobra.Command) {
	no := &options.AddOptions{}

	cmd := &cobra.Command{
		Use:   "note",
		Short: "Add a note",
		Example: `
planner add note --title="meeting notes" the quarterly review moved to friday
planner add note --voice=./memo.m4a
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			no.Text = strings.Join(args, " ")
			if no.Text == "" && no.Voice == "" && no.Title == "" {
				return errors.New("requires note text, a title, or --voice")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return err
			}
			title := no.Title
			if title == "" && no.Voice == "" {
				// First few words stand in for a title.
				title = no.Text
				if words := strings.Fields(no.Text); len(words) > 5 {
					title = strings.Join(words[:5], " ")
				}
			}
			s := add.Note{
				Title:     title,
				Text:      no.Text,
				VoicePath: no.Voice,
				Service:   svc,
			}
			return s.Do(context.Background())
		},
	}

	options.AddNoteArgs(cmd, no)
	topLevel.AddCommand(cmd)
}
