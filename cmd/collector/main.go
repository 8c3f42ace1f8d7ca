package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "collector",
		Short: "Incremental flight history collector",
		Long: `collector gathers the movement history of aircraft, airline fleets and
airports from Flightradar24 and appends the movements not yet stored to the
local dataset.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(airlinesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
