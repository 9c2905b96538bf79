package inventory

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go-drive/internal/config"
	"go-drive/internal/features/drive"
	"go-drive/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// snapshotSchedule is the cadence of the persisted usage snapshot. The
// scheduler never touches shares; share expiry is enforced at read time.
const snapshotSchedule = "@hourly"

type InventoryService interface {
	Current(ctx context.Context) (*Snapshot, error)
	History(ctx context.Context, limit int) ([]Snapshot, error)
	SnapshotNow(ctx context.Context) (*Snapshot, error)
	ExportExcel(ctx context.Context) ([]byte, string, error)
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type InventoryServiceImpl struct {
	Repo      InventoryRepository
	Config    *config.Config
	Logger    *zap.Logger
	scheduler *cron.Cron
}

func NewInventoryService(repo InventoryRepository, cfg *config.Config, logger *zap.Logger) InventoryService {
	return &InventoryServiceImpl{
		Repo:   repo,
		Config: cfg,
		Logger: logger,
	}
}

func (s *InventoryServiceImpl) Current(ctx context.Context) (*Snapshot, error) {
	return s.Repo.Aggregate(ctx)
}

func (s *InventoryServiceImpl) History(ctx context.Context, limit int) ([]Snapshot, error) {
	return s.Repo.ListSnapshots(ctx, limit)
}

func (s *InventoryServiceImpl) SnapshotNow(ctx context.Context) (*Snapshot, error) {
	snapshot, err := s.Repo.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

var exportColumns = []string{"ID", "Name", "Original Name", "Path", "Size", "Formatted Size", "MIME Type", "Downloads", "Created At"}

// ExportExcel renders the full file inventory as an xlsx workbook
func (s *InventoryServiceImpl) ExportExcel(ctx context.Context) ([]byte, string, error) {
	files, err := s.Repo.AllFiles(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Inventory"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, file := range files {
		values := []any{
			file.ID,
			file.Name,
			file.OriginalName,
			file.Path,
			file.Size,
			drive.FormatSize(file.Size),
			file.MimeType,
			file.Downloads,
			file.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-inventory-%s.xlsx",
		utils.Slugify(s.Config.AppId), time.Now().Format("20060102-150405"))
	return buf.Bytes(), filename, nil
}

func (s *InventoryServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(snapshotSchedule, func() {
		if _, err := s.SnapshotNow(context.Background()); err != nil {
			s.Logger.Error("inventory snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.scheduler.Start()
	s.Logger.Info("inventory snapshot scheduler started", zap.String("schedule", snapshotSchedule))
	return nil
}

func (s *InventoryServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return nil
}
