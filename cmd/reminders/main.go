// Command reminders prints reminders or dashboard statistics computed from customers storage.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/umalmyha/insurance-crm/internal/config"
	"github.com/umalmyha/insurance-crm/internal/infra"
	"github.com/umalmyha/insurance-crm/internal/metrics"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/repository"
	"github.com/umalmyha/insurance-crm/internal/service"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
)

type options struct {
	driver   string
	dsn      string
	at       string
	timeZone string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "reminders",
		Short:         "Reminders and dashboard statistics of insurance CRM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.driver, "driver", "sqlite", "Storage driver (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVar(&opts.dsn, "db", "crm.db", "Storage DSN")
	rootCmd.PersistentFlags().StringVar(&opts.at, "at", "", "Moment in RFC3339, current time if omitted")
	rootCmd.PersistentFlags().StringVar(&opts.timeZone, "tz", "Asia/Ho_Chi_Minh", "Calendar time zone")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders, overdue payments first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, out, func(d *model.Dashboard) any { return d.Reminders })
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, out, func(d *model.Dashboard) any { return d.Stats })
		},
	}

	rootCmd.AddCommand(listCmd, statsCmd)
	return rootCmd
}

func run(ctx context.Context, opts options, out io.Writer, pick func(*model.Dashboard) any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	loc, err := time.LoadLocation(opts.timeZone)
	if err != nil {
		return fmt.Errorf("failed to load time zone %s - %w", opts.timeZone, err)
	}

	var at time.Time
	if opts.at != "" {
		if at, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fmt.Errorf("moment %s is not RFC3339 - %w", opts.at, err)
		}
	}

	db, driver, err := infra.Database(ctx, config.StorageCfg{Driver: opts.driver, DSN: opts.dsn})
	if err != nil {
		return err
	}
	defer db.Close()

	customerRps := repository.NewSQLCustomerRepository(driver, transactor.NewSQLWithinTransactionExecutor(db))
	dashboardSvc := service.NewDashboardService(
		transactor.NewSQLTransactor(db),
		customerRps,
		loc,
		time.Now,
		metrics.New(prometheus.NewRegistry()),
	)

	d, err := dashboardSvc.Dashboard(ctx, at)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(pick(d))
}
