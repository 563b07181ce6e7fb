package routes

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Fo-mal-Haut/MetroPlan/pkg/config"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/dataset"
	"github.com/Fo-mal-Haut/MetroPlan/pkg/pathfinder"
)

var validate = validator.New()

type pathRequest struct {
	StartStation  string `json:"start_station" validate:"required"`
	EndStation    string `json:"end_station" validate:"required"`
	MaxTransfers  *int   `json:"max_transfers" validate:"omitempty,gte=0,lte=2"`
	WindowMinutes *int   `json:"window_minutes" validate:"omitempty,gte=0,lte=480"`

	AllowSameStationConsecutiveTransfers bool `json:"allow_same_station_consecutive_transfers"`
}

func PathRouter(router fiber.Router, store *dataset.Store, cfg config.AppConfig) {
	router.Post("/", postPath(store, cfg))
}

func postPath(store *dataset.Store, cfg config.AppConfig) fiber.Handler {
	queryTimeout := time.Duration(cfg.Server.QueryTimeoutMS) * time.Millisecond

	return func(c *fiber.Ctx) error {
		var body pathRequest
		if err := c.BodyParser(&body); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Request body must be valid JSON",
			})
		}

		if err := validate.Struct(body); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error":  "Request parameters are invalid",
				"detail": err.Error(),
			})
		}

		snapshot, err := store.Get()
		if err != nil {
			c.SendStatus(fiber.StatusServiceUnavailable)
			return c.JSON(fiber.Map{
				"error": "Planner data is not loaded",
			})
		}

		request := pathfinder.Request{
			StartStation:                         body.StartStation,
			EndStation:                           body.EndStation,
			MaxTransfers:                         pathfinder.HardMaxTransfers,
			WindowMinutes:                        cfg.Query.DefaultWindowMinutes,
			AllowSameStationConsecutiveTransfers: body.AllowSameStationConsecutiveTransfers,
		}
		if body.MaxTransfers != nil {
			request.MaxTransfers = *body.MaxTransfers
		}
		if body.WindowMinutes != nil {
			request.WindowMinutes = *body.WindowMinutes
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), queryTimeout)
		defer cancel()

		response, err := snapshot.Planner().Plan(ctx, request)
		if err != nil {
			return sendPlanError(c, err)
		}

		return c.JSON(response)
	}
}

func sendPlanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pathfinder.ErrUnknownStation):
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, pathfinder.ErrInvalidRequest):
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.SendStatus(fiber.StatusRequestTimeout)
		return c.JSON(fiber.Map{
			"error": "Path enumeration exceeded the time budget",
		})
	default:
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Path finding failed",
		})
	}
}
