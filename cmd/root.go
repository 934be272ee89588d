package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "billsync",
	Short: "Synchronize legislative bill records from LegiScan into Webflow",
	Long: `billsync keeps a Webflow bills collection in step with LegiScan.

Each run reads the collection, looks up every bill by its chamber numbers,
derives the display fields (status, timeline, sponsors, document links,
slug), and patches the changed records back, optionally publishing them.`,
}

func init() {
	// Local development loads credentials from .env; deployments set real
	// environment variables, so a missing file is not an error.
	_ = godotenv.Load()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
