package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func historyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Read payroll history",
	}
	cmd.AddCommand(historyListCmd(opts), historyShowCmd(opts))
	return cmd
}

func historyListCmd(opts *options) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved payroll runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := opts.client(cmd).ListPayrolls(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), page)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tPERIOD\tTOTAL")
			for _, rec := range page.Items {
				fmt.Fprintf(tw, "%d\t%s\t%s to %s\t%s\n", rec.ID, rec.DateCreated, rec.DateStart, rec.DateEnd, rec.TotalCost)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Records per page")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")
	return cmd
}

func historyShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one saved payroll run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			rec, err := opts.client(cmd).GetPayroll(cmd.Context(), id)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Payroll %d\n", rec.ID)
			fmt.Fprintf(out, "Created: %s\n", rec.DateCreated)
			fmt.Fprintf(out, "Period:  %s to %s\n", rec.DateStart, rec.DateEnd)
			fmt.Fprintf(out, "Total:   %s\n\n%s\n", rec.TotalCost, rec.Details)
			return nil
		},
	}
}
