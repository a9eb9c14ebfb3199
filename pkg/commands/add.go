package commands

import (
	"github.com/spf13/cobra"
)

func addAdd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add something",
		Example: `
planner add task buy groceries
planner add event "team standup" --on=tomorrow --at=09:30
planner add note "meeting notes" some text here
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addEvent(cmd)
	addTask(cmd)
	addNote(cmd)

	topLevel.AddCommand(cmd)
}
