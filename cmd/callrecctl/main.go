package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(openStore)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "callrecctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "callrecctl",
		Short: "Call recording dashboard CLI",
		Long: `callrecctl reads the configured recording store and prints recordings,
employee keys and statistics as JSON, using the same filters as the dashboard.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newListCmd(open),
		newStatsCmd(open),
		newEmployeesCmd(open),
		newMigrateCmd(open),
	)
	return cmd
}

type filterFlags struct {
	employee string
	start    string
	end      string
	query    string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.employee, "employee", "e", "", `Employee key, or "all"`)
	cmd.Flags().StringVar(&f.start, "start", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Free-text search over phone, employee and time")
}

func newListCmd(open opener) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print recordings matching the filters, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			return env.list(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	f.bind(cmd)
	return cmd
}

func newStatsCmd(open opener) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print summary and per-employee statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			return env.stats(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	f.bind(cmd)
	return cmd
}

func newEmployeesCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "employees",
		Short: "Print the distinct employee keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			return env.employees(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func newMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing collection tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			if env.ensure == nil {
				return errors.New("store does not support migrations")
			}
			if err := env.ensure(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "collections ready")
			return nil
		},
	}
}
