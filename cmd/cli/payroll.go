package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iho/payroll/internal/adapter/http/dto"
	"github.com/iho/payroll/internal/client"
)

type runFlags struct {
	start       string
	end         string
	inputs      string
	employeeIDs []int64
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "First day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.inputs, "inputs", "", "CSV file with employee_id,days,overtime_hours")
	cmd.Flags().Int64SliceVar(&f.employeeIDs, "employees", nil, "Run for these employees only, in this order")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("inputs")
}

func (f *runFlags) request() (dto.RunPayrollRequest, error) {
	items, err := readWorkInputsFile(f.inputs)
	if err != nil {
		return dto.RunPayrollRequest{}, err
	}
	return dto.RunPayrollRequest{
		DateStart:   f.start,
		DateEnd:     f.end,
		Employees:   items,
		EmployeeIDs: f.employeeIDs,
	}, nil
}

func payrollCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Compute and commit payroll runs",
	}
	cmd.AddCommand(payrollPreviewCmd(opts), payrollRunCmd(opts))
	return cmd
}

func payrollPreviewCmd(opts *options) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute a run without saving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			run, err := opts.client(cmd).PreviewPayroll(cmd.Context(), req)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), run)
			}
			return printRun(cmd.OutOrStdout(), run)
		},
	}
	flags.register(cmd)
	return cmd
}

func payrollRunCmd(opts *options) *cobra.Command {
	var (
		flags  runFlags
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute a run, save it to history and download its report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			c := opts.client(cmd)
			result, err := c.RunPayroll(cmd.Context(), req, format)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			if err := printRun(out, result.Run); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSaved payroll %d at %s\n", result.Record.ID, result.Record.DateCreated)

			if result.ReportError != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "report not produced: %s\n", result.ReportError)
				return nil
			}
			if outDir == "" {
				return nil
			}

			path, err := downloadReport(cmd, c, result.Record.ID, format, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Report written to %s\n", path)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "pdf", "Report format: pdf or xlsx")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory for the report; empty to skip the download")
	return cmd
}

func printRun(w io.Writer, run *dto.PayrollRunResponse) error {
	fmt.Fprintf(w, "Period: %s to %s\n\n", run.DateStart, run.DateEnd)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "EMPLOYEE\tDAYS\tOVERTIME\tTOTAL\tBANK\tCASH\t")
	for _, line := range run.Employees {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			truncate(line.Name, 32), line.Days, line.OvertimeHours, line.TotalPay, line.BankPay, line.CashPay)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nGrand total: %s\n", run.GrandTotal)
	return nil
}

func downloadReport(cmd *cobra.Command, c *client.Client, id int64, format, dir string) (string, error) {
	rep, err := c.DownloadReport(cmd.Context(), id, format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, filepath.Base(rep.Filename))
	if err := os.WriteFile(path, rep.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
