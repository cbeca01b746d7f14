package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"baseline_academy/internal/client"
)

const defaultServer = "http://localhost:3001"

// app carries the state shared by every subcommand.
type app struct {
	serverURL   string
	sessionPath string
	manager     *client.Manager
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Baseline Academy dashboard",
		Long: `Sign in to a Baseline Academy server and manage students, fees and homework
from the terminal. The session is kept between runs until logout or expiry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	server := os.Getenv("ACADEMY_URL")
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().StringVar(&a.serverURL, "server", server, "API base URL (env ACADEMY_URL)")
	cmd.PersistentFlags().StringVar(&a.sessionPath, "session", "", "session file (default $XDG_STATE_HOME/baseline-academy/session.json)")

	cmd.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newHealthCmd(a),
		newSummaryCmd(a),
		newStudentsCmd(a),
		newFeesCmd(a),
		newHomeworkCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	path := a.sessionPath
	if path == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return err
		}
		path = p
	}
	errOut := cmd.ErrOrStderr()
	a.manager = client.NewManager(
		client.New(a.serverURL),
		client.NewFileStorage(path),
		client.WithExpiryNotice(func(msg string) { fmt.Fprintln(errOut, msg) }),
	)
	return nil
}

// restore brings back a saved session and fails when there is none.
func (a *app) restore(cmd *cobra.Command) error {
	if err := a.manager.Restore(cmd.Context()); err != nil {
		return err
	}
	if a.manager.State() != client.LoggedIn {
		return errors.New("not logged in; run `dashboard login` first")
	}
	return nil
}

