package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"flight-history-collector/templates"
)

func airlinesCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "airlines",
		Short: "List the airline directory used to classify inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(nil)
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			airlines, err := a.engine().Airlines(ctx, refresh)
			if err != nil {
				return fmt.Errorf("failed to load airline directory: %w", err)
			}

			return templates.RenderAirlines(cmd.OutOrStdout(), airlines)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "scrape the directory even when a cached copy exists")
	return cmd
}
