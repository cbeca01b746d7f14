package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"baseline_academy/internal/client"
)

// promptLine reads one line from the command's input after printing label.
func promptLine(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no input")
	}
	return strings.TrimSpace(line), nil
}

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				p, err := promptLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			user, err := a.manager.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			cmd.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var req client.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				p, err := promptLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				req.Password = p
			}
			user, err := a.manager.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			cmd.Printf("Registered and logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password (prompted when empty)")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Role, "role", "teacher", "role: admin, teacher or staff")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.manager.Logout(); err != nil {
				return err
			}
			cmd.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			u := a.manager.User()
			cmd.Printf("%s <%s> role=%s id=%d\n", u.Username, u.Email, u.Role, u.ID)
			return nil
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := client.New(a.serverURL).Health(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("%s: %s\n", h.Status, h.Message)
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show dashboard totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			s, err := a.manager.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), []string{"STUDENTS", "ACTIVE", "FEES", "COLLECTED", "PENDING", "OVERDUE", "HOMEWORK"},
				[][]string{{
					fmt.Sprint(s.TotalStudents), fmt.Sprint(s.ActiveStudents), fmt.Sprint(s.TotalFees),
					fmt.Sprint(s.CollectedFees), fmt.Sprint(s.PendingFees), fmt.Sprint(s.OverdueAccounts),
					fmt.Sprint(s.ActiveHomework),
				}})
		},
	}
}
