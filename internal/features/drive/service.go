package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// EventPublisher receives drive change notifications for fan-out to
// connected listeners. Implementations must never block.
type EventPublisher interface {
	Publish(eventType string, payload map[string]any)
}

type DriveService interface {
	Upload(ctx context.Context, folderPath, originalName string, size int64, src io.Reader) (*FileEntry, error)
	ListDirectory(ctx context.Context, relPath string) ([]FileEntry, []FolderEntry, error)
	CreateFolder(ctx context.Context, name, parentPath string) (*Folder, string, error)
	Breadcrumb(ctx context.Context, folderPath string) ([]BreadcrumbItem, error)
	DeleteFolder(ctx context.Context, folderPath string) error
	DeleteFile(ctx context.Context, id int64) error
	BulkDelete(ctx context.Context, ids []int64) (*BulkDeleteResult, error)
}

type DriveServiceImpl struct {
	Resolver   *PathResolver
	Scanner    *Scanner
	FileRepo   FileRepository
	FolderRepo FolderRepository
	Events     EventPublisher
	Logger     *zap.Logger
}

func NewDriveService(
	resolver *PathResolver,
	scanner *Scanner,
	fileRepo FileRepository,
	folderRepo FolderRepository,
	events EventPublisher,
	logger *zap.Logger,
) DriveService {
	return &DriveServiceImpl{
		Resolver:   resolver,
		Scanner:    scanner,
		FileRepo:   fileRepo,
		FolderRepo: folderRepo,
		Events:     events,
		Logger:     logger,
	}
}

// normalizeRel brings a caller path into the stored forward-slash form.
// Input that climbs above the root is rejected here, before any lookup
// or disk mutation, never reinterpreted as an in-root path.
func normalizeRel(p string) (string, error) {
	p = path.Clean(filepath.ToSlash(p))
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", ErrPathTraversal
	}
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return "", nil // the storage root
	}
	return p, nil
}

func (s *DriveServiceImpl) publish(eventType string, payload map[string]any) {
	if s.Events != nil {
		s.Events.Publish(eventType, payload)
	}
}

// Upload streams src into the resolved folder and records the metadata
// row. The payload is never buffered in memory.
func (s *DriveServiceImpl) Upload(ctx context.Context, folderPath, originalName string, size int64, src io.Reader) (*FileEntry, error) {
	folderPath, err := normalizeRel(folderPath)
	if err != nil {
		return nil, err
	}

	folder, err := s.resolveFolder(ctx, folderPath)
	if err != nil {
		return nil, err
	}

	dirAbs, err := s.Resolver.Resolve(folderPath)
	if err != nil {
		return nil, err
	}

	name := UniqueName(originalName)
	abs, err := s.Resolver.ResolveFile(folderPath, name)
	if err != nil {
		return nil, err
	}
	relPath, err := s.Resolver.Rel(abs)
	if err != nil {
		return nil, err
	}

	if err := s.Resolver.EnsureDir(dirAbs); err != nil {
		s.Logger.Error("creating upload directory failed", zap.String("path", folderPath), zap.Error(err))
		return nil, fsError("mkdir", folderPath, err)
	}

	dst, err := os.Create(abs)
	if err != nil {
		s.Logger.Error("creating upload target failed", zap.String("path", relPath), zap.Error(err))
		return nil, fsError("create", relPath, err)
	}
	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(abs)
		s.Logger.Error("writing upload failed", zap.String("path", relPath), zap.Error(err))
		return nil, fsError("write", relPath, err)
	}
	if size > 0 && written != size {
		os.Remove(abs)
		return nil, fsError("write", relPath, fmt.Errorf("short write: %d of %d bytes", written, size))
	}

	f := &File{
		Name:         name,
		OriginalName: filepath.Base(originalName),
		Path:         relPath,
		Size:         written,
		MimeType:     MimeTypeFor(name),
		Extension:    filepath.Ext(name),
	}
	if folder != nil {
		f.FolderID = &folder.ID
	}
	if err := s.FileRepo.Save(ctx, f); err != nil {
		os.Remove(abs)
		return nil, err
	}

	s.publish("file.uploaded", map[string]any{"id": f.ID, "path": f.Path, "size": f.Size})

	return &FileEntry{
		File:          *f,
		IconClass:     IconClassFor(f.MimeType),
		FormattedSize: FormatSize(f.Size),
	}, nil
}

// ListDirectory scans the live filesystem and overlays the metadata
// rows for entries that have them (ids, original names, share state).
func (s *DriveServiceImpl) ListDirectory(ctx context.Context, relPath string) ([]FileEntry, []FolderEntry, error) {
	relPath, err := normalizeRel(relPath)
	if err != nil {
		return nil, nil, err
	}

	files, folders, err := s.Scanner.Scan(relPath)
	if err != nil {
		return nil, nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	rows, err := s.FileRepo.FindByPaths(ctx, paths)
	if err != nil {
		return nil, nil, err
	}

	byPath := make(map[string]*File, len(rows))
	for _, row := range rows {
		byPath[row.Path] = row
	}
	for i := range files {
		if row, ok := byPath[files[i].Path]; ok {
			files[i].File = *row
			files[i].IconClass = IconClassFor(row.MimeType)
			files[i].FormattedSize = FormatSize(row.Size)
		}
	}

	return files, folders, nil
}

// resolveFolder walks the materialized path one segment at a time and
// returns the folder row, or nil for the storage root.
func (s *DriveServiceImpl) resolveFolder(ctx context.Context, folderPath string) (*Folder, error) {
	folderPath, err := normalizeRel(folderPath)
	if err != nil {
		return nil, err
	}
	if folderPath == "" {
		return nil, nil
	}

	var current *Folder
	for _, segment := range splitPath(folderPath) {
		var parentID *int64
		if current != nil {
			parentID = &current.ID
		}
		next, err := s.FolderRepo.GetChild(ctx, parentID, segment)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func splitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func (s *DriveServiceImpl) CreateFolder(ctx context.Context, name, parentPath string) (*Folder, string, error) {
	parentPath, err := normalizeRel(parentPath)
	if err != nil {
		return nil, "", err
	}
	name = SanitizeFilename(name)

	parent, err := s.resolveFolder(ctx, parentPath)
	if err != nil {
		return nil, "", err
	}

	materialized := path.Join(parentPath, name)
	abs, err := s.Resolver.Resolve(materialized)
	if err != nil {
		return nil, "", err
	}

	folder := &Folder{Name: name}
	if parent != nil {
		folder.ParentID = &parent.ID
	}
	if err := s.FolderRepo.Create(ctx, folder); err != nil {
		if IsDuplicate(err) {
			return nil, "", fmt.Errorf("folder %q: %w", name, ErrFolderExists)
		}
		return nil, "", err
	}

	if err := s.Resolver.EnsureDir(abs); err != nil {
		s.Logger.Error("creating folder on disk failed", zap.String("path", materialized), zap.Error(err))
		return nil, "", fsError("mkdir", materialized, err)
	}

	s.publish("folder.created", map[string]any{"id": folder.ID, "path": materialized})

	return folder, materialized, nil
}

// Breadcrumb walks parent pointers from the target folder to the root
// and returns the chain in root-to-target order. It is display-only;
// containment decisions always re-derive from the resolver.
func (s *DriveServiceImpl) Breadcrumb(ctx context.Context, folderPath string) ([]BreadcrumbItem, error) {
	target, err := s.resolveFolder(ctx, folderPath)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return []BreadcrumbItem{}, nil
	}

	visited := map[int64]bool{}
	var chain []*Folder
	for current := target; ; {
		if visited[current.ID] {
			return nil, ErrIntegrity
		}
		visited[current.ID] = true
		chain = append(chain, current)
		if current.ParentID == nil {
			break
		}
		parent, err := s.FolderRepo.Get(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		current = parent
	}

	// chain is target->root; emit root->target with cumulative paths
	items := make([]BreadcrumbItem, 0, len(chain))
	crumb := ""
	for i := len(chain) - 1; i >= 0; i-- {
		crumb = path.Join(crumb, chain[i].Name)
		items = append(items, BreadcrumbItem{
			ID:   chain[i].ID,
			Name: chain[i].Name,
			Path: crumb,
		})
	}
	return items, nil
}

// DeleteFolder removes the folder, every descendant folder and file,
// both metadata rows and on-disk content. Traversal is an iterative
// work list with a visited set; a cyclic parent graph fails closed.
func (s *DriveServiceImpl) DeleteFolder(ctx context.Context, folderPath string) error {
	folderPath, err := normalizeRel(folderPath)
	if err != nil {
		return err
	}
	if folderPath == "" {
		return ErrPathTraversal // the storage root itself is not deletable
	}

	folder, err := s.resolveFolder(ctx, folderPath)
	if err != nil {
		return err
	}

	visited := map[int64]bool{}
	worklist := []int64{folder.ID}
	var all []int64
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if visited[id] {
			return ErrIntegrity
		}
		visited[id] = true
		all = append(all, id)

		children, err := s.FolderRepo.Children(ctx, id)
		if err != nil {
			return err
		}
		for _, child := range children {
			if visited[child.ID] {
				return ErrIntegrity
			}
			worklist = append(worklist, child.ID)
		}
	}

	abs, err := s.Resolver.Resolve(folderPath)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil {
		s.Logger.Error("removing folder tree failed", zap.String("path", folderPath), zap.Error(err))
		return fsError("remove", folderPath, err)
	}

	// Rows go after the disk content; outstanding share tokens for these
	// files are invalidated lazily at their next resolution.
	if err := s.FileRepo.DeleteByFolderIDs(ctx, all); err != nil {
		return err
	}
	if err := s.FolderRepo.DeleteByIDs(ctx, all); err != nil {
		return err
	}

	s.publish("folder.deleted", map[string]any{"id": folder.ID, "path": folderPath})
	return nil
}

// DeleteFile removes one file by id. Deleting an already-absent file is
// a successful no-op so concurrent and repeated deletes stay safe.
func (s *DriveServiceImpl) DeleteFile(ctx context.Context, id int64) error {
	f, err := s.FileRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	abs, err := s.Resolver.Resolve(f.Path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		s.Logger.Error("removing file failed", zap.String("path", f.Path), zap.Error(err))
		return fsError("remove", f.Path, err)
	}

	if err := s.FileRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish("file.deleted", map[string]any{"id": id, "path": f.Path})
	return nil
}

// BulkDelete processes every id independently and aggregates per-item
// failures instead of aborting. An empty list is a valid no-op.
func (s *DriveServiceImpl) BulkDelete(ctx context.Context, ids []int64) (*BulkDeleteResult, error) {
	result := &BulkDeleteResult{Failures: []BulkDeleteError{}}
	for _, id := range ids {
		if err := s.DeleteFile(ctx, id); err != nil {
			result.Failures = append(result.Failures, BulkDeleteError{
				ID:     id,
				Reason: err.Error(),
			})
			continue
		}
		result.DeletedCount++
	}
	return result, nil
}
