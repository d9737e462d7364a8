package assets

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// pdfDPI is the render resolution for PDF-page overlays. 150 is enough for
// an overlay that occupies at most three quarters of the frame.
const pdfDPI = 150

// resolvePDFPage renders one page of a PDF to a PNG under the resolver's
// temp directory.
func (r *Resolver) resolvePDFPage(ref string) (Asset, error) {
	path, page, err := splitPDFRef(ref)
	if err != nil {
		return Asset{}, &MissingAssetError{Ref: ref, Err: err}
	}

	doc, err := fitz.New(path)
	if err != nil {
		return Asset{}, &MissingAssetError{Ref: ref, Err: err}
	}
	defer doc.Close()

	if page >= doc.NumPage() {
		return Asset{}, &MissingAssetError{
			Ref: ref,
			Err: fmt.Errorf("page %d out of range, document has %d pages", page+1, doc.NumPage()),
		}
	}

	img, err := doc.ImageDPI(page, pdfDPI)
	if err != nil {
		return Asset{}, &MissingAssetError{Ref: ref, Err: err}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(r.tmpDir, fmt.Sprintf("%s_p%d.png", base, page+1))
	f, err := os.Create(out)
	if err != nil {
		return Asset{}, &MissingAssetError{Ref: ref, Err: err}
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return Asset{}, &MissingAssetError{Ref: ref, Err: err}
	}

	bounds := img.Bounds()
	return Asset{Path: out, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
