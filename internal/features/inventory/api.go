package inventory

import (
	"go-drive/internal/config"
	"go-drive/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type InventoryApi struct {
	controller *InventoryController
	config     *config.Config
}

func NewInventoryApi(controller *InventoryController, config *config.Config) *InventoryApi {
	return &InventoryApi{
		controller: controller,
		config:     config,
	}
}

func (h *InventoryApi) Setup(app *fiber.App) {
	inv := app.Group("/api/drive/inventory", middleware.AuthMiddleware(h.config.SkipAuth))
	inv.Get("/", h.controller.GetInventory)
	inv.Get("/history", h.controller.GetHistory)
	inv.Get("/export", h.controller.ExportInventory)
}
