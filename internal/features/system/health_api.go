package system

import (
	"go-drive/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct{}

func NewHealthApi() *HealthApi {
	return &HealthApi{}
}

// HealthCheck godoc
// @Summary Health check
// @Description Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.HealthCheck)
}

var _ api.Route = (*HealthApi)(nil)
