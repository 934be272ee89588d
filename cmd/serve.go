package cmd

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/mkowalski/billsync/internal/config"
	"github.com/mkowalski/billsync/internal/handlers"
	"github.com/mkowalski/billsync/internal/service"
	"github.com/spf13/cobra"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger server",
	Long:  `Start a small HTTP server that exposes the sync run as an endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}

		// Use PORT env var unless the flag was set explicitly
		if port == "8080" && cfg.Port != "" {
			port = cfg.Port
		}

		legiscan := service.NewLegiScanClient(cfg.LegiScanAPIKey)
		webflow := service.NewWebflowClient(cfg.WebflowToken)
		syncer := service.NewSyncer(legiscan, webflow)

		app := fiber.New(fiber.Config{
			AppName: "billsync",
		})

		app.Use(logger.New())
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigin,
			AllowMethods: "GET,POST,OPTIONS",
		}))

		// Routes
		app.Post("/sync", handlers.SyncHandler(syncer, cfg.CollectionID))
		app.Get("/healthz", handlers.HealthHandler())

		log.Printf("Starting server on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to listen on")
}
