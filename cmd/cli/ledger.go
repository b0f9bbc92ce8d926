package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errInconsistent = errors.New("ledger is inconsistent")

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that every saved total matches its details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.client(cmd).CheckConsistency(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				if err := printJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				if result.Consistent {
					fmt.Fprintf(out, "Consistency check PASSED (%d records)\n", result.Checked)
				} else {
					fmt.Fprintf(out, "Consistency check FAILED (%d of %d records)\n", len(result.Inconsistent), result.Checked)
					for _, rec := range result.Inconsistent {
						fmt.Fprintf(out, "  payroll %d: %s\n", rec.ID, rec.Reason)
					}
				}
			}

			if !result.Consistent {
				return errInconsistent
			}
			return nil
		},
	}

	cmd.AddCommand(consistencyCmd)
	return cmd
}
