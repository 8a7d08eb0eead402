package static

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IndexDocument is served for the root path and for directory requests.
const IndexDocument = "index.html"

const defaultContentType = "application/octet-stream"

var (
	ErrForbidden = errors.New("path escapes asset root")
	ErrNotFound  = errors.New("asset not found")
)

var contentTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".map":   "application/json; charset=utf-8",
	".txt":   "text/plain; charset=utf-8",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// Resolver maps URL paths to files under a fixed root directory.
type Resolver struct {
	root string
}

func NewResolver(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset root: %w", err)
	}
	return &Resolver{root: abs}, nil
}

func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the file that urlPath refers to. Leading slashes are
// stripped before cleaning so ".." segments are kept and caught by the
// containment check instead of being folded back under the root.
func (r *Resolver) Resolve(urlPath string) (string, error) {
	rel := strings.TrimLeft(filepath.FromSlash(urlPath), string(filepath.Separator))
	rel = filepath.Clean(rel)
	if rel == "." {
		rel = IndexDocument
	}
	if filepath.IsAbs(rel) {
		return "", ErrForbidden
	}

	target := filepath.Join(r.root, rel)
	if !r.contains(target) {
		return "", ErrForbidden
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", ErrNotFound
	}
	if info.IsDir() {
		target = filepath.Join(target, IndexDocument)
	}
	return target, nil
}

// Read resolves urlPath and returns the file content with its content type.
func (r *Resolver) Read(urlPath string) ([]byte, string, error) {
	path, err := r.Resolve(urlPath)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", ErrNotFound
	}
	return data, ContentType(path), nil
}

func (r *Resolver) contains(target string) bool {
	rel, err := filepath.Rel(r.root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ContentType maps a file extension to a MIME type.
func ContentType(path string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return defaultContentType
}
