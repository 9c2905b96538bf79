package drive

import "time"

type File struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	OriginalName string     `json:"original_name"`
	Path         string     `json:"path"` // relative to the storage root, forward slashes
	Size         int64      `json:"size"`
	MimeType     string     `json:"mime_type"`
	Extension    string     `json:"extension"`
	FolderID     *int64     `json:"folder_id,omitempty"`
	ShareToken   *string    `json:"share_token,omitempty"`
	ShareExpiry  *time.Time `json:"share_expiry,omitempty"`
	IsPublic     bool       `json:"is_public"`
	Downloads    int64      `json:"downloads"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FileShare struct {
	Token        string     `json:"token"`
	FilePath     string     `json:"file_path"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	MaxDownloads *int64     `json:"max_downloads,omitempty"`
	Downloads    int64      `json:"downloads"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FileEntry is a listed file enriched with display fields derived at scan time
type FileEntry struct {
	File
	IconClass     string `json:"icon_class"`
	FormattedSize string `json:"formatted_size"`
}

// FolderEntry is a listed sub-folder. Folders carry no meaningful size;
// the timestamp is the on-disk modification time of the directory.
type FolderEntry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type BreadcrumbItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

type BulkDeleteError struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

type BulkDeleteResult struct {
	DeletedCount int               `json:"deleted_count"`
	Failures     []BulkDeleteError `json:"failures"`
}

// ShareInfo is the metadata-only view of a share used by preview pages
type ShareInfo struct {
	Token         string     `json:"token"`
	FileName      string     `json:"file_name"`
	Size          int64      `json:"size"`
	FormattedSize string     `json:"formatted_size"`
	MimeType      string     `json:"mime_type"`
	Downloads     int64      `json:"downloads"`
	MaxDownloads  *int64     `json:"max_downloads,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
