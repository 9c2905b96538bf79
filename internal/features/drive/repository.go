package drive

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-drive/internal/database"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// IsDuplicate reports whether err is the store's uniqueness constraint firing
func IsDuplicate(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type FileRepository interface {
	Save(ctx context.Context, f *File) error
	Get(ctx context.Context, id int64) (*File, error)
	GetByPath(ctx context.Context, relPath string) (*File, error)
	FindByPaths(ctx context.Context, relPaths []string) ([]*File, error)
	FindByFolderIDs(ctx context.Context, folderIDs []int64) ([]*File, error)
	SetShare(ctx context.Context, id int64, token *string, expiry *time.Time) error
	IncrementDownloads(ctx context.Context, relPath string) error
	Delete(ctx context.Context, id int64) error
	DeleteByFolderIDs(ctx context.Context, folderIDs []int64) error
}

type FileRepositoryImpl struct {
	db *sql.DB
}

func NewFileRepository(pg *database.PostgresDB) FileRepository {
	return &FileRepositoryImpl{db: pg.DB}
}

const fileColumns = `id, name, original_name, path, size, mime_type, extension,
	folder_id, share_token, share_expiry, is_public, downloads, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*File, error) {
	var f File
	err := row.Scan(&f.ID, &f.Name, &f.OriginalName, &f.Path, &f.Size, &f.MimeType,
		&f.Extension, &f.FolderID, &f.ShareToken, &f.ShareExpiry, &f.IsPublic,
		&f.Downloads, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FileRepositoryImpl) Save(ctx context.Context, f *File) error {
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	return r.db.QueryRowContext(ctx, `
		INSERT INTO files (name, original_name, path, size, mime_type, extension,
			folder_id, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		f.Name, f.OriginalName, f.Path, f.Size, f.MimeType, f.Extension,
		f.FolderID, f.IsPublic, f.CreatedAt, f.UpdatedAt,
	).Scan(&f.ID)
}

func (r *FileRepositoryImpl) Get(ctx context.Context, id int64) (*File, error) {
	return scanFile(r.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1`, id))
}

func (r *FileRepositoryImpl) GetByPath(ctx context.Context, relPath string) (*File, error) {
	return scanFile(r.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE path = $1`, relPath))
}

func (r *FileRepositoryImpl) FindByPaths(ctx context.Context, relPaths []string) ([]*File, error) {
	if len(relPaths) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE path = ANY($1)`, pq.Array(relPaths))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFiles(rows)
}

func (r *FileRepositoryImpl) FindByFolderIDs(ctx context.Context, folderIDs []int64) ([]*File, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE folder_id = ANY($1)`, pq.Array(folderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFiles(rows)
}

func collectFiles(rows *sql.Rows) ([]*File, error) {
	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *FileRepositoryImpl) SetShare(ctx context.Context, id int64, token *string, expiry *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE files
		SET share_token = $2, share_expiry = $3, is_public = $4, updated_at = now()
		WHERE id = $1`,
		id, token, expiry, token != nil)
	return err
}

func (r *FileRepositoryImpl) IncrementDownloads(ctx context.Context, relPath string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE files SET downloads = downloads + 1, updated_at = now() WHERE path = $1`, relPath)
	return err
}

func (r *FileRepositoryImpl) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	return err
}

func (r *FileRepositoryImpl) DeleteByFolderIDs(ctx context.Context, folderIDs []int64) error {
	if len(folderIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM files WHERE folder_id = ANY($1)`, pq.Array(folderIDs))
	return err
}

type FolderRepository interface {
	Create(ctx context.Context, folder *Folder) error
	Get(ctx context.Context, id int64) (*Folder, error)
	GetChild(ctx context.Context, parentID *int64, name string) (*Folder, error)
	Children(ctx context.Context, parentID int64) ([]*Folder, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}

type FolderRepositoryImpl struct {
	db *sql.DB
}

func NewFolderRepository(pg *database.PostgresDB) FolderRepository {
	return &FolderRepositoryImpl{db: pg.DB}
}

func scanFolder(row rowScanner) (*Folder, error) {
	var f Folder
	err := row.Scan(&f.ID, &f.Name, &f.ParentID, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FolderRepositoryImpl) Create(ctx context.Context, folder *Folder) error {
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now
	return r.db.QueryRowContext(ctx, `
		INSERT INTO folders (name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		folder.Name, folder.ParentID, folder.CreatedAt, folder.UpdatedAt,
	).Scan(&folder.ID)
}

func (r *FolderRepositoryImpl) Get(ctx context.Context, id int64) (*Folder, error) {
	return scanFolder(r.db.QueryRowContext(ctx,
		`SELECT id, name, parent_id, created_at, updated_at FROM folders WHERE id = $1`, id))
}

func (r *FolderRepositoryImpl) GetChild(ctx context.Context, parentID *int64, name string) (*Folder, error) {
	return scanFolder(r.db.QueryRowContext(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM folders
		WHERE name = $1 AND parent_id IS NOT DISTINCT FROM $2`,
		name, parentID))
}

func (r *FolderRepositoryImpl) Children(ctx context.Context, parentID int64) ([]*Folder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM folders
		WHERE parent_id = $1
		ORDER BY name`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (r *FolderRepositoryImpl) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM folders WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

type ShareRepository interface {
	Create(ctx context.Context, share *FileShare) error
	Get(ctx context.Context, token string) (*FileShare, error)
	// TryRedeem increments the download counter only while the budget
	// allows it, as a single conditional update. It reports whether a
	// row was updated; callers classify a false result themselves.
	TryRedeem(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}

type ShareRepositoryImpl struct {
	db *sql.DB
}

func NewShareRepository(pg *database.PostgresDB) ShareRepository {
	return &ShareRepositoryImpl{db: pg.DB}
}

func (r *ShareRepositoryImpl) Create(ctx context.Context, share *FileShare) error {
	share.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO file_shares (token, file_path, expires_at, max_downloads, downloads, created_at)
		VALUES ($1, $2, $3, $4, 0, $5)`,
		share.Token, share.FilePath, share.ExpiresAt, share.MaxDownloads, share.CreatedAt)
	return err
}

func (r *ShareRepositoryImpl) Get(ctx context.Context, token string) (*FileShare, error) {
	var s FileShare
	err := r.db.QueryRowContext(ctx, `
		SELECT token, file_path, expires_at, max_downloads, downloads, created_at
		FROM file_shares
		WHERE token = $1`, token,
	).Scan(&s.Token, &s.FilePath, &s.ExpiresAt, &s.MaxDownloads, &s.Downloads, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShareRepositoryImpl) TryRedeem(ctx context.Context, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE file_shares
		SET downloads = downloads + 1
		WHERE token = $1 AND (max_downloads IS NULL OR downloads < max_downloads)`,
		token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *ShareRepositoryImpl) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM file_shares WHERE token = $1`, token)
	return err
}
