package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/api/routes"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/config"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/dataset"
)

// SetupServer builds the fiber app exposing the planner surface and starts
// listening.
func SetupServer(listen string, store *dataset.Store, cfg config.AppConfig) error {
	webApp := NewApp(store, cfg)
	return webApp.Listen(listen)
}

// NewApp assembles the fiber app without binding a listener.
func NewApp(store *dataset.Store, cfg config.AppConfig) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	routes.HealthRouter(webApp.Group("/health"), store)
	routes.StationsRouter(webApp.Group("/stations"), store)
	routes.PathRouter(webApp.Group("/path"), store, cfg)

	return webApp
}
