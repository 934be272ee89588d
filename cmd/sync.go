package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkowalski/billsync/internal/config"
	"github.com/mkowalski/billsync/internal/service"
	"github.com/spf13/cobra"
)

var syncDryRun bool
var syncNoPublish bool
var syncLimit int
var syncCollection string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the Webflow bills collection against LegiScan",
	Long: `Sync fetches every record in the bills collection, looks up the
matching bills in LegiScan, recomputes the derived fields, and patches the
records that changed. Updated records are published in batches afterwards.

Examples:
  # Full run
  ./billsync sync

  # Compute updates without writing anything
  ./billsync sync --dry-run

  # Patch but leave everything in draft
  ./billsync sync --no-publish

  # Only the first 5 records (useful while testing field mappings)
  ./billsync sync --limit 5`,
	Run: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Compute updates without writing to Webflow")
	syncCmd.Flags().BoolVar(&syncNoPublish, "no-publish", false, "Patch records but skip the publish step")
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "Process at most this many records (0 = all)")
	syncCmd.Flags().StringVar(&syncCollection, "collection", "", "Webflow collection ID (defaults to WEBFLOW_COLLECTION_ID)")
}

func runSync(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	collectionID := syncCollection
	if collectionID == "" {
		collectionID = cfg.CollectionID
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	legiscan := service.NewLegiScanClient(cfg.LegiScanAPIKey)
	webflow := service.NewWebflowClient(cfg.WebflowToken)
	syncer := service.NewSyncer(legiscan, webflow)

	opts := service.SyncOptions{
		DryRun:  syncDryRun,
		Publish: !syncNoPublish,
		Limit:   syncLimit,
	}

	log.Printf("Starting sync for collection %s", collectionID)
	summary, err := syncer.Run(ctx, collectionID, opts)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Sync cancelled")
			if summary != nil {
				syncer.PrintSummary(summary)
			}
			os.Exit(1)
		}
		log.Fatalf("Sync failed: %v", err)
	}
	syncer.PrintSummary(summary)

	if summary.Errored > 0 {
		os.Exit(1)
	}
}
