package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/dataset"
)

func StationsRouter(router fiber.Router, store *dataset.Store) {
	router.Get("/", getStations(store))
}

func getStations(store *dataset.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, err := store.Get()
		if err != nil {
			c.SendStatus(fiber.StatusServiceUnavailable)
			return c.JSON(fiber.Map{
				"error": "Station data is not loaded",
			})
		}

		return c.JSON(fiber.Map{
			"stations":  snapshot.Stations,
			"count":     len(snapshot.Stations),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
