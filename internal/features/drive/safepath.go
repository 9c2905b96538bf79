package drive

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// PathResolver pins every caller-supplied relative path inside one storage root.
// All security decisions re-derive from it; nothing else touches raw paths.
type PathResolver struct {
	root string
}

func NewPathResolver(root string) (*PathResolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, err
	}
	return &PathResolver{root: abs}, nil
}

func (r *PathResolver) Root() string { return r.root }

// Resolve joins rel under the root and rejects any result that lands
// outside it. No disk access happens here.
func (r *PathResolver) Resolve(rel string) (string, error) {
	abs := filepath.Join(r.root, filepath.FromSlash(rel))
	if abs != r.root && !strings.HasPrefix(abs, r.root+string(os.PathSeparator)) {
		return "", ErrPathTraversal
	}
	return abs, nil
}

// ResolveFile resolves a folder path plus a file name in one step.
// The name goes through the same containment check as the folder path.
func (r *PathResolver) ResolveFile(folderPath, name string) (string, error) {
	return r.Resolve(path.Join(folderPath, name))
}

// Rel converts a resolved absolute location back to the stored
// forward-slash relative form.
func (r *PathResolver) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// EnsureDir creates a resolved directory, idempotently.
func (r *PathResolver) EnsureDir(abs string) error {
	return os.MkdirAll(abs, 0755)
}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	safeExt     = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)
)

// SanitizeFilename keeps [A-Za-z0-9_-], maps spaces to underscores and
// drops everything else. An empty result falls back to "file".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		name = "file"
	}
	return name
}

// UniqueName builds the on-disk name for an upload: sanitized base name,
// an opaque suffix so repeated uploads never collide, and the original
// extension when it is safe to keep.
func UniqueName(original string) string {
	original = filepath.Base(original)
	ext := strings.ToLower(filepath.Ext(original))
	if ext != "" && !safeExt.MatchString(ext) {
		ext = ""
	}
	base := SanitizeFilename(strings.TrimSuffix(original, filepath.Ext(original)))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return base + "_" + suffix + ext
}
