package main

import (
	"github.com/spf13/cobra"

	"baseline_academy/internal/client"
)

func newHomeworkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "homework",
		Short: "Manage homework assignments",
	}
	cmd.AddCommand(newHomeworkListCmd(a), newHomeworkAddCmd(a), newHomeworkDoneCmd(a), newHomeworkDeleteCmd(a))
	return cmd
}

func newHomeworkListCmd(a *app) *cobra.Command {
	var class, subject, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List homework by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			items, err := a.manager.Homework(cmd.Context(), class, subject, status)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, h := range items {
				rows = append(rows, []string{h.DueDate, h.Title, h.Subject, h.Class, string(h.Priority), string(h.Status), h.ID})
			}
			return writeTable(cmd.OutOrStdout(), []string{"DUE", "TITLE", "SUBJECT", "CLASS", "PRIORITY", "STATUS", "ID"}, rows)
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "class filter")
	cmd.Flags().StringVar(&subject, "subject", "", "subject filter")
	cmd.Flags().StringVar(&status, "status", "", "Active or Completed")
	return cmd
}

func newHomeworkAddCmd(a *app) *cobra.Command {
	var in client.NewHomework
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Assign homework",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			hw, err := a.manager.AddHomework(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Printf("Assigned %q to %s, due %s (id %s)\n", hw.Title, hw.Class, hw.DueDate, hw.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "title")
	f.StringVar(&in.Description, "description", "", "description")
	f.StringVar(&in.Subject, "subject", "", "subject")
	f.StringVar(&in.Class, "class", "", "class")
	f.StringVar(&in.DueDate, "due", "", "due date (YYYY-MM-DD)")
	f.StringVar(&in.Priority, "priority", "", "Low, Medium or High")
	return cmd
}

func newHomeworkDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark homework completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			hw, err := a.manager.CompleteHomework(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("%q marked %s\n", hw.Title, hw.Status)
			return nil
		},
	}
}

func newHomeworkDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete homework",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			if err := a.manager.DeleteHomework(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println("Deleted")
			return nil
		},
	}
}
