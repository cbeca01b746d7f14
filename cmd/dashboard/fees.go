package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newFeesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "List fee accounts and record payments",
	}
	cmd.AddCommand(newFeesListCmd(a), newFeesPayCmd(a))
	return cmd
}

func newFeesListCmd(a *app) *cobra.Command {
	var status, class string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fee accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			fees, err := a.manager.Fees(cmd.Context(), status, class)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(fees))
			for _, f := range fees {
				rows = append(rows, []string{
					f.RollNumber, f.StudentName, f.Class,
					fmt.Sprint(f.TotalFees), fmt.Sprint(f.PaidFees), fmt.Sprint(f.PendingFees),
					string(f.Status), f.DueDate, orDash(f.LastPaymentDate), f.ID,
				})
			}
			return writeTable(cmd.OutOrStdout(),
				[]string{"ROLL", "NAME", "CLASS", "TOTAL", "PAID", "PENDING", "STATUS", "DUE", "LAST PAYMENT", "ID"}, rows)
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "Paid, Partial, Pending, Overdue or all")
	cmd.Flags().StringVar(&class, "class", "all", "class filter")
	return cmd
}

func newFeesPayCmd(a *app) *cobra.Command {
	var paidOn string
	cmd := &cobra.Command{
		Use:   "pay <fee-id> <amount>",
		Short: "Record a payment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}
			if err := a.restore(cmd); err != nil {
				return err
			}
			acct, err := a.manager.Pay(cmd.Context(), args[0], amount, paidOn)
			if err != nil {
				return err
			}
			cmd.Printf("%s: paid %d of %d, %d pending (%s)\n",
				acct.StudentName, acct.PaidFees, acct.TotalFees, acct.PendingFees, acct.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&paidOn, "on", "", "payment date (YYYY-MM-DD, default today)")
	return cmd
}
