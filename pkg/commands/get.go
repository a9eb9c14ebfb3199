package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/planner/pkg/commands/options"
	"tableflip.dev/planner/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	week := false

	long := strings.Builder{}
	long.WriteString("Get the calendar, to-dos, or notes.\n\n")
	long.WriteString("Views:\n")
	long.WriteString(fmt.Sprintf("%s: the full calendar, grouped by day\n", get.Calendar))
	long.WriteString(fmt.Sprintf("%s: this week, Monday through Sunday\n", get.Week))
	long.WriteString(fmt.Sprintf("%s: to-dos in their sections\n", get.Tasks))
	long.WriteString(fmt.Sprintf("%s: notes, newest first\n", get.Notes))

	cmd := &cobra.Command{
		Use:   "get [view]",
		Short: "get something",
		Long:  long.String(),
		Example: `
planner get calendar
planner get calendar --week
planner get tasks
planner get notes
`,
		ValidArgs: []string{string(get.Calendar), string(get.Week), string(get.Tasks), string(get.Notes)},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			view := get.Calendar
			if len(args) > 0 {
				view = get.View(args[0])
			}
			if week {
				view = get.Week
			}

			svc, err := newService()
			if err != nil {
				return err
			}
			s := get.Get{
				ShowID:  io.ShowID,
				View:    view,
				Service: svc,
			}
			return s.Do(context.Background())
		},
	}

	cmd.Flags().BoolVarP(&week, "week", "w", false, "Show the current week only.")
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
