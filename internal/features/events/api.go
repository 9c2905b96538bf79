package events

import (
	"go-drive/internal/common/api"
	"go-drive/internal/config"
	"go-drive/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type EventsApi struct {
	Controller *EventsController
	Config     *config.Config
}

func NewEventsApi(controller *EventsController, cfg *config.Config) api.Route {
	return &EventsApi{
		Controller: controller,
		Config:     cfg,
	}
}

func (h *EventsApi) Setup(app *fiber.App) {
	app.Use("/api/drive/events", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/api/drive/events", middleware.AuthMiddleware(h.Config.SkipAuth), websocket.New(h.Controller.HandleEvents))
}
