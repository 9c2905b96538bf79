package drive

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
)

// In-memory repositories mirroring the Postgres implementations closely
// enough to exercise the services without a running database.

type memFileRepo struct {
	mu    sync.Mutex
	seq   int64
	files map[int64]*File
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: map[int64]*File{}}
}

func (m *memFileRepo) Save(ctx context.Context, f *File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	f.ID = m.seq
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	cp := *f
	m.files[f.ID] = &cp
	return nil
}

func (m *memFileRepo) Get(ctx context.Context, id int64) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memFileRepo) GetByPath(ctx context.Context, relPath string) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.Path == relPath {
			cp := *f
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memFileRepo) FindByPaths(ctx context.Context, relPaths []string) ([]*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*File
	for _, p := range relPaths {
		for _, f := range m.files {
			if f.Path == p {
				cp := *f
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (m *memFileRepo) FindByFolderIDs(ctx context.Context, folderIDs []int64) ([]*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := map[int64]bool{}
	for _, id := range folderIDs {
		ids[id] = true
	}
	var out []*File
	for _, f := range m.files {
		if f.FolderID != nil && ids[*f.FolderID] {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memFileRepo) SetShare(ctx context.Context, id int64, token *string, expiry *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return ErrNotFound
	}
	f.ShareToken = token
	f.ShareExpiry = expiry
	f.IsPublic = token != nil
	return nil
}

func (m *memFileRepo) IncrementDownloads(ctx context.Context, relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.Path == relPath {
			f.Downloads++
		}
	}
	return nil
}

func (m *memFileRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, id)
	return nil
}

func (m *memFileRepo) DeleteByFolderIDs(ctx context.Context, folderIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := map[int64]bool{}
	for _, id := range folderIDs {
		ids[id] = true
	}
	for id, f := range m.files {
		if f.FolderID != nil && ids[*f.FolderID] {
			delete(m.files, id)
		}
	}
	return nil
}

type memFolderRepo struct {
	mu      sync.Mutex
	seq     int64
	folders map[int64]*Folder

	// Corruption knobs for integrity tests: extraChildren simulates a
	// corrupted index returning bogus child rows, getOverride a
	// corrupted parent pointer seen by the upward walk.
	extraChildren map[int64][]*Folder
	getOverride   map[int64]*Folder
}

func newMemFolderRepo() *memFolderRepo {
	return &memFolderRepo{
		folders:       map[int64]*Folder{},
		extraChildren: map[int64][]*Folder{},
		getOverride:   map[int64]*Folder{},
	}
}

func (m *memFolderRepo) Create(ctx context.Context, folder *Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Same unique index as the SQL store: one name per parent.
	for _, existing := range m.folders {
		if existing.Name != folder.Name {
			continue
		}
		if (existing.ParentID == nil) != (folder.ParentID == nil) {
			continue
		}
		if existing.ParentID == nil || *existing.ParentID == *folder.ParentID {
			return &pq.Error{Code: "23505"}
		}
	}
	m.seq++
	folder.ID = m.seq
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now
	cp := *folder
	m.folders[folder.ID] = &cp
	return nil
}

func (m *memFolderRepo) Get(ctx context.Context, id int64) (*Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.getOverride[id]; ok {
		cp := *f
		return &cp, nil
	}
	f, ok := m.folders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memFolderRepo) GetChild(ctx context.Context, parentID *int64, name string) (*Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.folders {
		if f.Name != name {
			continue
		}
		if parentID == nil && f.ParentID == nil {
			cp := *f
			return &cp, nil
		}
		if parentID != nil && f.ParentID != nil && *parentID == *f.ParentID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memFolderRepo) Children(ctx context.Context, parentID int64) ([]*Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Folder
	for _, f := range m.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			cp := *f
			out = append(out, &cp)
		}
	}
	for _, f := range m.extraChildren[parentID] {
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memFolderRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.folders, id)
	}
	return nil
}

type memShareRepo struct {
	mu     sync.Mutex
	shares map[string]*FileShare
}

func newMemShareRepo() *memShareRepo {
	return &memShareRepo{shares: map[string]*FileShare{}}
}

func (m *memShareRepo) Create(ctx context.Context, share *FileShare) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.shares[share.Token]; exists {
		return &pq.Error{Code: "23505"}
	}
	share.CreatedAt = time.Now()
	cp := *share
	m.shares[share.Token] = &cp
	return nil
}

func (m *memShareRepo) Get(ctx context.Context, token string) (*FileShare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shares[token]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// TryRedeem mirrors the single conditional UPDATE of the SQL store: the
// check and the increment happen under one lock.
func (m *memShareRepo) TryRedeem(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shares[token]
	if !ok {
		return false, nil
	}
	if s.MaxDownloads != nil && s.Downloads >= *s.MaxDownloads {
		return false, nil
	}
	s.Downloads++
	return true, nil
}

func (m *memShareRepo) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.shares, token)
	return nil
}
