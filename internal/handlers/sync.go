package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/mkowalski/billsync/internal/service"
)

// SyncHandler triggers a reconciliation run and responds with the run
// summary. The run is synchronous; the caller waits for the full batch.
func SyncHandler(syncer *service.Syncer, collectionID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts := service.SyncOptions{
			DryRun:  c.QueryBool("dry_run"),
			Publish: !c.QueryBool("no_publish"),
			Limit:   c.QueryInt("limit"),
		}

		summary, err := syncer.Run(c.Context(), collectionID, opts)
		if err != nil {
			log.Printf("Sync run failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		syncer.PrintSummary(summary)
		return c.JSON(summary)
	}
}

// HealthHandler reports liveness.
func HealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
