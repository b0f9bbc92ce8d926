package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func reportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Payroll report files",
	}

	var format, outDir string
	download := &cobra.Command{
		Use:   "download ID",
		Short: "Download the report of a saved payroll run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			path, err := downloadReport(cmd, opts.client(cmd), id, format, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}
	download.Flags().StringVar(&format, "format", "pdf", "Report format: pdf or xlsx")
	download.Flags().StringVar(&outDir, "out", ".", "Directory for the report")

	cmd.AddCommand(download)
	return cmd
}
