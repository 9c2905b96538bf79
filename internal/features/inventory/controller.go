package inventory

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type InventoryController struct {
	Service InventoryService
}

func NewInventoryController(service InventoryService) *InventoryController {
	return &InventoryController{Service: service}
}

// GetInventory godoc
// @Summary Current drive usage
// @Description File counts and byte totals, broken down by MIME family
// @Tags inventory
// @Produce json
// @Success 200 {object} Snapshot
// @Failure 500 {object} map[string]interface{}
// @Router /api/drive/inventory [get]
func (ctrl *InventoryController) GetInventory(c *fiber.Ctx) error {
	snapshot, err := ctrl.Service.Current(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error computing inventory",
		})
	}
	return c.JSON(snapshot)
}

// GetHistory godoc
// @Summary Usage snapshots
// @Description Most recent persisted usage snapshots, newest first
// @Tags inventory
// @Produce json
// @Param limit query int false "Maximum snapshots to return"
// @Success 200 {array} Snapshot
// @Router /api/drive/inventory/history [get]
func (ctrl *InventoryController) GetHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "24"))
	snapshots, err := ctrl.Service.History(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error listing snapshots",
		})
	}
	return c.JSON(snapshots)
}

// ExportInventory godoc
// @Summary Export inventory
// @Description Download the full file inventory as an xlsx workbook
// @Tags inventory
// @Success 200 {file} file "Workbook content"
// @Failure 500 {object} map[string]interface{}
// @Router /api/drive/inventory/export [get]
func (ctrl *InventoryController) ExportInventory(c *fiber.Ctx) error {
	data, filename, err := ctrl.Service.ExportExcel(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error exporting inventory",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
