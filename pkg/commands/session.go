package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/planner/pkg/commands/options"
	"tableflip.dev/planner/pkg/runner/login"
	"tableflip.dev/planner/pkg/session"
)

func addSession(topLevel *cobra.Command) {
	addLogin(topLevel)
	addSignup(topLevel)
	addLogout(topLevel)
	addWhoami(topLevel)
}

func addLogin(topLevel *cobra.Command) {
	co := &options.CredentialOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "sign in to your account",
		Example: `
planner login --email=me@example.com --password=secret
`,
		Args: func(_ *cobra.Command, _ []string) error {
			if co.Email == "" || co.Password == "" {
				return errors.New("requires --email and --password")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			gate, err := session.Open(nil)
			if err != nil {
				return err
			}
			s := login.Login{Email: co.Email, Password: co.Password, Gate: gate}
			return s.Do(context.Background())
		},
	}

	options.AddCredentialArgs(cmd, co)
	topLevel.AddCommand(cmd)
}

func addSignup(topLevel *cobra.Command) {
	co := &options.CredentialOptions{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "create an account and sign in",
		Example: `
planner signup --email=me@example.com --password=secret
`,
		Args: func(_ *cobra.Command, _ []string) error {
			if co.Email == "" || co.Password == "" {
				return errors.New("requires --email and --password")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			gate, err := session.Open(nil)
			if err != nil {
				return err
			}
			s := login.Signup{Email: co.Email, Password: co.Password, Gate: gate}
			return s.Do(context.Background())
		},
	}

	options.AddCredentialArgs(cmd, co)
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			gate, err := session.Open(nil)
			if err != nil {
				return err
			}
			s := login.Logout{Gate: gate}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}

func addWhoami(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			gate, err := session.Open(nil)
			if err != nil {
				return err
			}
			s := login.Whoami{Gate: gate}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
