package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/planner/pkg/app"
	"tableflip.dev/planner/pkg/attachment"
	"tableflip.dev/planner/pkg/commands/options"
	"tableflip.dev/planner/pkg/session"
	"tableflip.dev/planner/pkg/store"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "planner",
		Short: options.Wrap80("Your calendar, to-dos, notes, and the weather on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addSession(topLevel)
	addAdd(topLevel)
	addEdit(topLevel)
	addGet(topLevel)
	addComplete(topLevel)
	addDelete(topLevel)
	addWeather(topLevel)
}

// newService wires the session gate, persistence, and attachment storage
// from local config.
func newService() (*app.Service, error) {
	gate, err := session.Open(nil)
	if err != nil {
		return nil, err
	}
	p, err := store.Load(nil)
	if err != nil {
		return nil, err
	}
	att, err := attachment.NewFileStore(nil)
	if err != nil {
		return nil, err
	}
	return &app.Service{Gate: gate, Persistence: p, Attachments: att}, nil
}
