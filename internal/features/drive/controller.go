package drive

import (
	"errors"
	"strconv"

	"go-drive/internal/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DriveController struct {
	DriveService DriveService
	ShareService ShareService
	Config       *config.Config
	Logger       *zap.Logger
}

func NewDriveController(driveService DriveService, shareService ShareService, cfg *config.Config, logger *zap.Logger) *DriveController {
	return &DriveController{
		DriveService: driveService,
		ShareService: shareService,
		Config:       cfg,
		Logger:       logger,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrPathTraversal):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrFolderExists):
		return fiber.StatusConflict
	case errors.Is(err, ErrShareExpired):
		return fiber.StatusGone
	case errors.Is(err, ErrShareLimitReached):
		return fiber.StatusTooManyRequests
	case errors.Is(err, ErrIntegrity):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail maps a service error onto the HTTP response. Filesystem failures
// surface as a generic message so internal paths never leak.
func (ctrl *DriveController) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	var fse *FileSystemError
	if errors.As(err, &fse) {
		msg = "storage operation failed"
	} else if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// UploadFile godoc
// @Summary Upload file
// @Description Upload a file into a drive folder
// @Tags drive
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param folder_path formData string false "Target folder path"
// @Success 201 {object} FileEntry
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/drive/upload [post]
func (ctrl *DriveController) UploadFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error retrieving file",
		})
	}

	maxBytes := int64(ctrl.Config.MaxUploadMB) << 20
	if fileHeader.Size > maxBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file too large (max " + strconv.Itoa(ctrl.Config.MaxUploadMB) + "MB)",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error reading file",
		})
	}
	defer src.Close()

	entry, err := ctrl.DriveService.Upload(c.UserContext(), c.FormValue("folder_path"), fileHeader.Filename, fileHeader.Size, src)
	if err != nil {
		return ctrl.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// ListDirectory godoc
// @Summary List folder contents
// @Description List the immediate files and folders of a drive path
// @Tags drive
// @Produce json
// @Param path query string false "Folder path, empty for the root"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/drive/list [get]
func (ctrl *DriveController) ListDirectory(c *fiber.Ctx) error {
	files, folders, err := ctrl.DriveService.ListDirectory(c.UserContext(), c.Query("path"))
	if err != nil {
		return ctrl.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"files":   files,
		"folders": folders,
	})
}

type createFolderRequest struct {
	Name       string `json:"name"`
	ParentPath string `json:"parent_path"`
}

// CreateFolder godoc
// @Summary Create folder
// @Description Create a folder under an existing parent path
// @Tags drive
// @Accept json
// @Produce json
// @Param body body createFolderRequest true "Folder to create"
// @Success 201 {object} Folder
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/drive/folders [post]
func (ctrl *DriveController) CreateFolder(c *fiber.Ctx) error {
	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Folder name required"})
	}

	folder, materialized, err := ctrl.DriveService.CreateFolder(c.UserContext(), req.Name, req.ParentPath)
	if err != nil {
		return ctrl.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"folder": folder,
		"path":   materialized,
	})
}

// Breadcrumb godoc
// @Summary Folder breadcrumb
// @Description Ordered ancestor chain from the root to the folder
// @Tags drive
// @Produce json
// @Param path query string true "Folder path"
// @Success 200 {array} BreadcrumbItem
// @Failure 404 {object} map[string]interface{}
// @Router /api/drive/folders/breadcrumb [get]
func (ctrl *DriveController) Breadcrumb(c *fiber.Ctx) error {
	items, err := ctrl.DriveService.Breadcrumb(c.UserContext(), c.Query("path"))
	if err != nil {
		return ctrl.fail(c, err)
	}
	return c.JSON(items)
}

// DeleteFolder godoc
// @Summary Delete folder
// @Description Delete a folder and all of its descendants, on disk and in metadata
// @Tags drive
// @Param path query string true "Folder path"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/drive/folders [delete]
func (ctrl *DriveController) DeleteFolder(c *fiber.Ctx) error {
	folderPath := c.Query("path")
	if folderPath == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Folder path required"})
	}

	if err := ctrl.DriveService.DeleteFolder(c.UserContext(), folderPath); err != nil {
		return ctrl.fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Folder deleted successfully"})
}

// DeleteFile godoc
// @Summary Delete file
// @Description Delete a file by id; deleting an absent file succeeds
// @Tags drive
// @Param id path int true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/drive/files/{id} [delete]
func (ctrl *DriveController) DeleteFile(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file id"})
	}

	if err := ctrl.DriveService.DeleteFile(c.UserContext(), id); err != nil {
		return ctrl.fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "File deleted successfully"})
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BulkDelete godoc
// @Summary Bulk delete files
// @Description Delete a set of files; per-item failures are reported, not raised
// @Tags drive
// @Accept json
// @Produce json
// @Param body body bulkDeleteRequest true "File ids to delete"
// @Success 200 {object} BulkDeleteResult
// @Failure 400 {object} map[string]interface{}
// @Router /api/drive/files/bulk-delete [post]
func (ctrl *DriveController) BulkDelete(c *fiber.Ctx) error {
	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := ctrl.DriveService.BulkDelete(c.UserContext(), req.IDs)
	if err != nil {
		return ctrl.fail(c, err)
	}

	return c.JSON(result)
}

type issueShareRequest struct {
	FileID       int64  `json:"file_id"`
	ExpiryHours  int    `json:"expiry_hours"`
	MaxDownloads *int64 `json:"max_downloads"`
}

// IssueShare godoc
// @Summary Create share link
// @Description Issue a time/usage-bounded share token for a file
// @Tags share
// @Accept json
// @Produce json
// @Param body body issueShareRequest true "Share parameters"
// @Success 201 {object} FileShare
// @Failure 404 {object} map[string]interface{}
// @Router /api/drive/share [post]
func (ctrl *DriveController) IssueShare(c *fiber.Ctx) error {
	var req issueShareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	share, err := ctrl.ShareService.Issue(c.UserContext(), req.FileID, req.ExpiryHours, req.MaxDownloads)
	if err != nil {
		return ctrl.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(share)
}

// RevokeShare godoc
// @Summary Revoke share link
// @Description Delete a share token; the link is invalid immediately
// @Tags share
// @Param token path string true "Share token"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/drive/share/{token} [delete]
func (ctrl *DriveController) RevokeShare(c *fiber.Ctx) error {
	if err := ctrl.ShareService.Revoke(c.UserContext(), c.Params("token")); err != nil {
		return ctrl.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Share revoked successfully"})
}

// InspectShare godoc
// @Summary Share preview
// @Description Share metadata without consuming the download budget
// @Tags share
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} ShareInfo
// @Failure 404 {object} map[string]interface{}
// @Failure 410 {object} map[string]interface{}
// @Router /api/share/{token} [get]
func (ctrl *DriveController) InspectShare(c *fiber.Ctx) error {
	info, err := ctrl.ShareService.Inspect(c.UserContext(), c.Params("token"))
	if err != nil {
		return ctrl.fail(c, err)
	}
	return c.JSON(info)
}

// DownloadShare godoc
// @Summary Redeem share link
// @Description Consume one download and stream the file bytes
// @Tags share
// @Param token path string true "Share token"
// @Success 200 {file} file "File content"
// @Failure 404 {object} map[string]interface{}
// @Failure 410 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/share/{token}/download [get]
func (ctrl *DriveController) DownloadShare(c *fiber.Ctx) error {
	f, abs, err := ctrl.ShareService.Redeem(c.UserContext(), c.Params("token"))
	if err != nil {
		return ctrl.fail(c, err)
	}
	return c.Download(abs, f.OriginalName)
}
