package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/planner/pkg/commands/options"
	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/runner/add"
)

func addTask(topLevel *cobra.Command) {
	no := &options.AddOptions{}

	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add a to-do item",
		Example: `
planner add task buy groceries
planner add task call the bank --category=reminder
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a task")
			}
			no.Text = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := newService()
			if err != nil {
				return err
			}
			s := add.Task{
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
