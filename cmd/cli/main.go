package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/payroll/internal/client"
)

type options struct {
	baseURL string
	timeout time.Duration
	retries uint64
	asJSON  bool
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "payroll-cli",
		Short:         "Payroll CLI tool",
		Long:          `A command line interface for running payroll and reading payroll history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("PAYROLL_URL", "http://localhost:8080"), "Base URL of the payroll API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().Uint64Var(&opts.retries, "retries", 3, "Retries for failed calls")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log retries to stderr")

	rootCmd.AddCommand(
		employeesCmd(opts),
		payrollCmd(opts),
		historyCmd(opts),
		reportCmd(opts),
		ledgerCmd(opts),
	)

	return rootCmd
}

func (o *options) client(cmd *cobra.Command) *client.Client {
	log := zerolog.Nop()
	if o.verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).With().Timestamp().Logger()
	}

	return client.New(o.baseURL,
		client.WithRetry(o.retries, 200*time.Millisecond),
		client.WithLogger(log),
		client.WithTimeout(o.timeout),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
