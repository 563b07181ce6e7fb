package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/dataset"
)

func HealthRouter(router fiber.Router, store *dataset.Store) {
	router.Get("/", getHealth(store))
}

func getHealth(store *dataset.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, _ := store.Get()
		loaded := snapshot.DataLoaded()

		status := "unhealthy"
		if loaded.Graph && loaded.Schedule && loaded.TrainInfo && loaded.DirectionalityMap &&
			loaded.Adjacency && loaded.Nodes && loaded.StationsList {
			status = "healthy"
		}

		return c.JSON(fiber.Map{
			"status":      status,
			"data_loaded": loaded,
			"timestamp":   time.Now().Format(time.RFC3339),
		})
	}
}
