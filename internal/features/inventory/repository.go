package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-drive/internal/database"
	"go-drive/internal/features/drive"
)

type InventoryRepository interface {
	// Aggregate computes the current totals straight from the files table
	Aggregate(ctx context.Context) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error)
	AllFiles(ctx context.Context) ([]drive.File, error)
}

type InventoryRepositoryImpl struct {
	db *sql.DB
}

func NewInventoryRepository(pg *database.PostgresDB) InventoryRepository {
	return &InventoryRepositoryImpl{db: pg.DB}
}

func (r *InventoryRepositoryImpl) Aggregate(ctx context.Context) (*Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT split_part(mime_type, '/', 1) AS family, count(*), coalesce(sum(size), 0)
		FROM files
		GROUP BY family`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := &Snapshot{
		Families:  map[string]FamilyStat{},
		CreatedAt: time.Now(),
	}
	for rows.Next() {
		var family string
		var stat FamilyStat
		if err := rows.Scan(&family, &stat.Count, &stat.Bytes); err != nil {
			return nil, err
		}
		snapshot.Families[family] = stat
		snapshot.TotalFiles += stat.Count
		snapshot.TotalBytes += stat.Bytes
	}
	return snapshot, rows.Err()
}

func (r *InventoryRepositoryImpl) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	families, err := json.Marshal(snapshot.Families)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO inventory_snapshots (total_files, total_bytes, families, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		snapshot.TotalFiles, snapshot.TotalBytes, families, snapshot.CreatedAt,
	).Scan(&snapshot.ID)
}

func (r *InventoryRepositoryImpl) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 24
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, total_files, total_bytes, families, created_at
		FROM inventory_snapshots
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var families []byte
		if err := rows.Scan(&s.ID, &s.TotalFiles, &s.TotalBytes, &families, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(families, &s.Families); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func (r *InventoryRepositoryImpl) AllFiles(ctx context.Context) ([]drive.File, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, original_name, path, size, mime_type, downloads, created_at
		FROM files
		ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []drive.File
	for rows.Next() {
		var f drive.File
		if err := rows.Scan(&f.ID, &f.Name, &f.OriginalName, &f.Path, &f.Size,
			&f.MimeType, &f.Downloads, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
