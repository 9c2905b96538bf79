package drive

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".rar":  "application/vnd.rar",
	".7z":   "application/x-7z-compressed",
}

// MimeTypeFor maps a filename extension to a MIME type, falling back to
// application/octet-stream for anything unknown.
func MimeTypeFor(name string) string {
	if m, ok := mimeByExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return m
	}
	return "application/octet-stream"
}

// IconClassFor buckets a MIME type into the icon family used by the frontend
func IconClassFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "icon-image"
	case strings.HasPrefix(mimeType, "video/"):
		return "icon-video"
	case strings.HasPrefix(mimeType, "audio/"):
		return "icon-audio"
	case mimeType == "application/pdf":
		return "icon-pdf"
	case strings.HasPrefix(mimeType, "text/"):
		return "icon-text"
	case mimeType == "application/msword" || strings.Contains(mimeType, "wordprocessingml"):
		return "icon-document"
	case mimeType == "application/vnd.ms-excel" || strings.Contains(mimeType, "spreadsheetml"):
		return "icon-spreadsheet"
	case mimeType == "application/vnd.ms-powerpoint" || strings.Contains(mimeType, "presentationml"):
		return "icon-presentation"
	case mimeType == "application/zip" || mimeType == "application/x-tar" ||
		mimeType == "application/gzip" || mimeType == "application/vnd.rar" ||
		mimeType == "application/x-7z-compressed":
		return "icon-archive"
	default:
		return "icon-generic"
	}
}

// FormatSize renders a byte count in binary units with one decimal
// place, e.g. 1536 -> "1.5 KB".
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// Scanner lists one directory level under the storage root with display metadata
type Scanner struct {
	resolver *PathResolver
}

func NewScanner(resolver *PathResolver) *Scanner {
	return &Scanner{resolver: resolver}
}

// Scan returns the immediate files and sub-folders of relPath. Entries
// whose metadata cannot be read (permission error, race with a
// concurrent delete) are skipped so one bad entry never aborts the
// whole listing.
func (s *Scanner) Scan(relPath string) ([]FileEntry, []FolderEntry, error) {
	abs, err := s.resolver.Resolve(relPath)
	if err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fsError("scan", path.Clean(filepath.ToSlash(relPath)), err)
	}

	files := []FileEntry{}
	folders := []FolderEntry{}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		entryPath := path.Join(filepath.ToSlash(relPath), entry.Name())
		if entry.IsDir() {
			folders = append(folders, FolderEntry{
				Name:       entry.Name(),
				Path:       entryPath,
				ModifiedAt: info.ModTime(),
			})
			continue
		}

		mimeType := MimeTypeFor(entry.Name())
		files = append(files, FileEntry{
			File: File{
				Name:      entry.Name(),
				Path:      entryPath,
				Size:      info.Size(),
				MimeType:  mimeType,
				Extension: strings.ToLower(filepath.Ext(entry.Name())),
				CreatedAt: info.ModTime(),
				UpdatedAt: info.ModTime(),
			},
			IconClass:     IconClassFor(mimeType),
			FormattedSize: FormatSize(info.Size()),
		})
	}

	return files, folders, nil
}
