package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"flight-history-collector/internal/infrastructure/config"
	"flight-history-collector/internal/usecase"
	"flight-history-collector/pkg/utils"
	"flight-history-collector/templates"
)

func runCmd() *cobra.Command {
	var (
		input    string
		airports string
		output   string
		earliest string
		store    string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect flight history and append new movements",
		Long: `run reads aircraft registrations and airline names from the input file,
airport codes from the airports file, collects their history and appends the
movements missing from the dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(func(c *config.Config) {
				flags := cmd.Flags()
				if flags.Changed("input") {
					c.InputFile = input
				}
				if flags.Changed("airports") {
					c.AirportsFile = airports
				}
				if flags.Changed("output") {
					c.OutputFile = output
				}
				if flags.Changed("earliest") {
					c.EarliestDate = earliest
				}
				if flags.Changed("store") {
					c.Store = store
				}
				if flags.Changed("workers") {
					c.Workers = workers
				}
			})
			if err != nil {
				return err
			}

			tokens, err := utils.ReadTokenList(cfg.InputFile)
			if err != nil {
				return err
			}
			airportCodes, err := utils.ReadOptionalTokenList(cfg.AirportsFile)
			if err != nil {
				return err
			}
			earliestDate, err := cfg.Earliest()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			a.log.Info("Starting flight history collector",
				"input", cfg.InputFile,
				"airports", len(airportCodes),
				"store", cfg.Store,
				"workers", cfg.Workers)
			a.serveMetrics(ctx)

			report, err := a.engine().Run(ctx, usecase.RunInput{
				Tokens:   tokens,
				Airports: airportCodes,
				Earliest: earliestDate,
			})
			if report != nil && report.Targets > 0 {
				if renderErr := templates.RenderRunSummary(cmd.OutOrStdout(), report); renderErr != nil {
					a.log.Warn("Failed to render run summary", "error", renderErr)
				}
			}
			if errors.Is(err, context.Canceled) {
				a.log.Info("Collector stopped by signal")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "file of aircraft registrations and airline names (INPUT_FILE)")
	cmd.Flags().StringVarP(&airports, "airports", "a", "", "file of airport codes (AIRPORTS_FILE)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV dataset path (OUTPUT_FILE)")
	cmd.Flags().StringVar(&earliest, "earliest", "", "skip movements before this date, YYYY-MM-DD or DD.MM.YYYY (EARLIEST_DATE)")
	cmd.Flags().StringVar(&store, "store", "", "dataset backend: csv or mongo (STORE)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "targets collected concurrently (WORKERS)")

	return cmd
}
