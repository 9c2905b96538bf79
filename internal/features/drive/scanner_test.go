package drive

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 30, "5.0 GB"},
		{3 << 40, "3.0 TB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.size); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestMimeTypeFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"clip.mp4", "video/mp4"},
		{"photo.JPG", "image/jpeg"},
		{"song.mp3", "audio/mpeg"},
		{"notes.txt", "text/plain"},
		{"report.pdf", "application/pdf"},
		{"data.bin", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := MimeTypeFor(tt.name); got != tt.want {
			t.Errorf("MimeTypeFor(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIconClassFor(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"image/png", "icon-image"},
		{"video/mp4", "icon-video"},
		{"audio/flac", "icon-audio"},
		{"application/pdf", "icon-pdf"},
		{"text/plain", "icon-text"},
		{"application/msword", "icon-document"},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "icon-spreadsheet"},
		{"application/vnd.ms-powerpoint", "icon-presentation"},
		{"application/zip", "icon-archive"},
		{"application/octet-stream", "icon-generic"},
	}
	for _, tt := range tests {
		if got := IconClassFor(tt.mimeType); got != tt.want {
			t.Errorf("IconClassFor(%q) = %q, want %q", tt.mimeType, got, tt.want)
		}
	}
}

func TestScanListsOneLevelOnly(t *testing.T) {
	resolver := newTestResolver(t)
	scanner := NewScanner(resolver)
	root := resolver.Root()

	if err := os.WriteFile(filepath.Join(root, "movie.mp4"), make([]byte, 1536), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "nested.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	files, folders, err := scanner.Scan("")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("Scan() files = %d, want 1", len(files))
	}
	f := files[0]
	if f.Name != "movie.mp4" || f.MimeType != "video/mp4" || f.IconClass != "icon-video" {
		t.Errorf("Scan() file = %+v", f)
	}
	if f.FormattedSize != "1.5 KB" {
		t.Errorf("Scan() formatted size = %q, want %q", f.FormattedSize, "1.5 KB")
	}

	if len(folders) != 1 {
		t.Fatalf("Scan() folders = %d, want 1", len(folders))
	}
	if folders[0].Name != "sub" || folders[0].Path != "sub" || folders[0].Size != 0 {
		t.Errorf("Scan() folder = %+v", folders[0])
	}
}

func TestScanSubfolderPaths(t *testing.T) {
	resolver := newTestResolver(t)
	scanner := NewScanner(resolver)

	if err := os.MkdirAll(filepath.Join(resolver.Root(), "a", "b"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(resolver.Root(), "a", "note.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	files, folders, err := scanner.Scan("a")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(files) != 1 || files[0].Path != "a/note.txt" {
		t.Errorf("Scan() files = %+v, want path a/note.txt", files)
	}
	if len(folders) != 1 || folders[0].Path != "a/b" {
		t.Errorf("Scan() folders = %+v, want path a/b", folders)
	}
}

func TestScanMissingFolder(t *testing.T) {
	scanner := NewScanner(newTestResolver(t))

	if _, _, err := scanner.Scan("does-not-exist"); err != ErrNotFound {
		t.Errorf("Scan() error = %v, want ErrNotFound", err)
	}
}

func TestScanRejectsTraversal(t *testing.T) {
	scanner := NewScanner(newTestResolver(t))

	if _, _, err := scanner.Scan("../outside"); err != ErrPathTraversal {
		t.Errorf("Scan() error = %v, want ErrPathTraversal", err)
	}
}
