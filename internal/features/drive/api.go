package drive

import (
	"go-drive/internal/config"
	"go-drive/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DriveApi struct {
	controller *DriveController
	config     *config.Config
}

func NewDriveApi(controller *DriveController, config *config.Config) *DriveApi {
	return &DriveApi{
		controller: controller,
		config:     config,
	}
}

func (h *DriveApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Post("/api/drive/upload", auth, h.controller.UploadFile)
	app.Get("/api/drive/list", auth, h.controller.ListDirectory)
	app.Post("/api/drive/folders", auth, h.controller.CreateFolder)
	app.Get("/api/drive/folders/breadcrumb", auth, h.controller.Breadcrumb)
	app.Delete("/api/drive/folders", auth, h.controller.DeleteFolder)
	app.Delete("/api/drive/files/:id", auth, h.controller.DeleteFile)
	app.Post("/api/drive/files/bulk-delete", auth, h.controller.BulkDelete)
	app.Post("/api/drive/share", auth, h.controller.IssueShare)
	app.Delete("/api/drive/share/:token", auth, h.controller.RevokeShare)

	// Share resolution is deliberately unauthenticated: the token itself
	// is the access grant.
	app.Get("/api/share/:token", h.controller.InspectShare)
	app.Get("/api/share/:token/download", h.controller.DownloadShare)
}
