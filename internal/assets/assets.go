// Package assets resolves overlay source references into decodable image
// files with known dimensions. Three reference forms are supported: a plain
// image path, "file.pdf#page=N" for a rendered PDF page, and "qr:DATA" for
// a generated QR code.
package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MissingAssetError reports a source reference that cannot be resolved to
// a readable asset. Scheduling treats it as non-fatal: the overlay is
// skipped and a warning recorded.
type MissingAssetError struct {
	Ref string
	Err error
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("assets: cannot resolve %q: %v", e.Ref, e.Err)
}

func (e *MissingAssetError) Unwrap() error { return e.Err }

// Asset is a resolved source reference: a file on disk plus its pixel
// dimensions.
type Asset struct {
	Path   string
	Width  int
	Height int
}

// Resolver resolves source references. Generated assets (PDF pages, QR
// codes) are written under a temp directory owned by the resolver and
// removed by Close. Resolutions are cached, so a reference used by several
// overlays is rendered once; the cache makes Resolve safe for concurrent
// use.
type Resolver struct {
	tmpDir string
	qrSize int

	mu    sync.Mutex
	cache map[string]Asset
}

// NewResolver creates a resolver with its own temp directory.
func NewResolver() (*Resolver, error) {
	dir, err := os.MkdirTemp("", "clipforge_assets_")
	if err != nil {
		return nil, err
	}
	return &Resolver{tmpDir: dir, qrSize: defaultQRSize, cache: make(map[string]Asset)}, nil
}

// Close removes all generated assets.
func (r *Resolver) Close() error {
	return os.RemoveAll(r.tmpDir)
}

// Resolve turns a source reference into an Asset.
func (r *Resolver) Resolve(ref string) (Asset, error) {
	r.mu.Lock()
	if a, ok := r.cache[ref]; ok {
		r.mu.Unlock()
		return a, nil
	}
	r.mu.Unlock()

	a, err := r.resolve(ref)
	if err != nil {
		return Asset{}, err
	}

	r.mu.Lock()
	r.cache[ref] = a
	r.mu.Unlock()
	return a, nil
}

func (r *Resolver) resolve(ref string) (Asset, error) {
	switch {
	case strings.HasPrefix(ref, qrScheme):
		return r.resolveQR(ref)
	case isPDFRef(ref):
		return r.resolvePDFPage(ref)
	default:
		return probeImage(ref)
	}
}

// probeImage reads only the image header to get dimensions.
func probeImage(path string) (Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Asset{}, &MissingAssetError{Ref: path, Err: err}
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Asset{}, &MissingAssetError{Ref: path, Err: err}
	}
	return Asset{Path: path, Width: cfg.Width, Height: cfg.Height}, nil
}

// isPDFRef reports whether ref names a PDF file, with or without a
// "#page=N" fragment.
func isPDFRef(ref string) bool {
	path := ref
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		path = ref[:i]
	}
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// splitPDFRef splits "file.pdf#page=N" into path and zero-based page
// index. A missing fragment means the first page.
func splitPDFRef(ref string) (path string, page int, err error) {
	path = ref
	page = 0
	i := strings.IndexByte(ref, '#')
	if i < 0 {
		return path, 0, nil
	}
	path = ref[:i]
	frag := ref[i+1:]
	num, ok := strings.CutPrefix(frag, "page=")
	if !ok {
		return "", 0, fmt.Errorf("unsupported fragment %q", frag)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("invalid page number %q", num)
	}
	return path, n - 1, nil
}
