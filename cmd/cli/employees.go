package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/payroll/internal/adapter/http/dto"
)

func employeesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Roster operations",
	}

	cmd.AddCommand(
		employeesListCmd(opts),
		employeesAddCmd(opts),
		employeesUpdateCmd(opts),
		employeesDeactivateCmd(opts),
	)
	return cmd
}

func employeesListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := opts.client(cmd).ListEmployees(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), employees)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDAILY WAGE\tOVERTIME\tBANK LIMIT")
			for _, e := range employees {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, truncate(e.Name, 32), e.DailyWage, e.OvertimeCost, e.BankLimit)
			}
			return tw.Flush()
		},
	}
}

func employeesAddCmd(opts *options) *cobra.Command {
	var name, dailyWage, overtimeCost, bankLimit string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateEmployeeRequest{Name: name}

			var err error
			if req.DailyWage, err = parseAmount("daily-wage", dailyWage); err != nil {
				return err
			}
			if req.OvertimeCost, err = parseAmount("overtime-cost", overtimeCost); err != nil {
				return err
			}
			if req.BankLimit, err = parseAmount("bank-limit", bankLimit); err != nil {
				return err
			}

			employee, err := opts.client(cmd).CreateEmployee(cmd.Context(), req)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), employee)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added employee %d (%s)\n", employee.ID, employee.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Employee name")
	cmd.Flags().StringVar(&dailyWage, "daily-wage", "", "Pay per day worked")
	cmd.Flags().StringVar(&overtimeCost, "overtime-cost", "0", "Pay per overtime hour")
	cmd.Flags().StringVar(&bankLimit, "bank-limit", "0", "Most that can go by bank transfer per run; 0 means cash only")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("daily-wage")

	return cmd
}

func employeesUpdateCmd(opts *options) *cobra.Command {
	var name, dailyWage, overtimeCost, bankLimit string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change an employee's name or wage terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req dto.UpdateEmployeeRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			for _, f := range []struct {
				flag  string
				value string
				dst   **decimal.Decimal
			}{
				{"daily-wage", dailyWage, &req.DailyWage},
				{"overtime-cost", overtimeCost, &req.OvertimeCost},
				{"bank-limit", bankLimit, &req.BankLimit},
			} {
				if !cmd.Flags().Changed(f.flag) {
					continue
				}
				amount, err := parseAmount(f.flag, f.value)
				if err != nil {
					return err
				}
				*f.dst = &amount
			}

			employee, err := opts.client(cmd).UpdateEmployee(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), employee)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated employee %d (%s)\n", employee.ID, employee.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Employee name")
	cmd.Flags().StringVar(&dailyWage, "daily-wage", "", "Pay per day worked")
	cmd.Flags().StringVar(&overtimeCost, "overtime-cost", "", "Pay per overtime hour")
	cmd.Flags().StringVar(&bankLimit, "bank-limit", "", "Most that can go by bank transfer per run")

	return cmd
}

func employeesDeactivateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate ID",
		Short: "Remove an employee from future runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := opts.client(cmd).DeactivateEmployee(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated employee %d\n", id)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid --%s %q", name, s)
	}
	return d, nil
}
