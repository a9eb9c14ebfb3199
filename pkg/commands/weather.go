package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/planner/pkg/commands/options"
	"tableflip.dev/planner/pkg/runner/forecast"
	"tableflip.dev/planner/pkg/session"
	"tableflip.dev/planner/pkg/weather"
)

func addWeather(topLevel *cobra.Command) {
	lo := &options.LocationOptions{}

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "show the forecast and your reminders",
		Example: `
planner weather --lat=47.61 --lon=-122.33
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			gate, err := session.Open(nil)
			if err != nil {
				return err
			}
			reminders, err := weather.OpenReminders(nil)
			if err != nil {
				return err
			}

			var locator weather.Locator
			switch {
			case lo.Provided():
				locator = weather.StaticLocator{Coordinates: weather.Coordinates{
					Latitude:  lo.Latitude,
					Longitude: lo.Longitude,
				}}
			case viper.IsSet("latitude") && viper.IsSet("longitude"):
				locator = weather.StaticLocator{Coordinates: weather.Coordinates{
					Latitude:  viper.GetFloat64("latitude"),
					Longitude: viper.GetFloat64("longitude"),
				}}
			default:
				locator = weather.DeniedLocator{}
			}

			s := forecast.Forecast{
				Locator:   locator,
				Client:    weather.NewClient(),
				Reminders: reminders,
				Gate:      gate,
			}
			return s.Do(context.Background())
		},
	}

	options.AddLocationArgs(cmd, lo)

	addReminder(cmd)
	topLevel.AddCommand(cmd)
}

func addReminder(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "reminder (add|remove) <text>",
		Short: "manage your own weather reminders",
		Example: `
planner weather reminder add water the plants
planner weather reminder remove water the plants
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires add or remove, then the reminder text")
			}
			switch args[0] {
			case "add", "remove":
				return nil
			}
			return errors.New("first argument must be add or remove")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			gate, err := session.Open(nil)
			if err != nil {
				return err
			}
			reminders, err := weather.OpenReminders(nil)
			if err != nil {
				return err
			}

			text := strings.Join(args[1:], " ")
			if args[0] == "add" {
				s := forecast.AddReminder{Text: text, Reminders: reminders, Gate: gate}
				return s.Do(context.Background())
			}
			s := forecast.RemoveReminder{Text: text, Reminders: reminders, Gate: gate}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
