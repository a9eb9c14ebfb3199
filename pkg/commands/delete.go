package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete (event|task|note) <id>",
		Aliases: []string{"rm"},
		Short:   "delete a record",
		Example: `
planner delete task <id>
planner delete note <id>
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires a kind and an id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var kind record.Kind
			switch args[0] {
			case "event", "events":
				kind = record.KindEvent
			case "task", "tasks":
				kind = record.KindTask
			case "note", "notes":
				kind = record.KindNote
			default:
				return fmt.Errorf("unknown kind %q", args[0])
			}

			svc, err := newService()
			if err != nil {
				return err
			}
			s := remove.Remove{
				Kind:    kind,
				ID:      args[1],
				Service: svc,
			}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
