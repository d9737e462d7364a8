package assets

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrScheme      = "qr:"
	defaultQRSize = 512
)

// resolveQR generates a QR code image for a "qr:DATA" reference. The same
// data always resolves to the same file, so repeated references reuse one
// asset.
func (r *Resolver) resolveQR(ref string) (Asset, error) {
	data := strings.TrimPrefix(ref, qrScheme)
	if data == "" {
		return Asset{}, &MissingAssetError{Ref: ref, Err: fmt.Errorf("empty QR payload")}
	}

	h := fnv.New64a()
	h.Write([]byte(data))
	out := filepath.Join(r.tmpDir, fmt.Sprintf("qr_%x.png", h.Sum64()))

	if err := qrcode.WriteFile(data, qrcode.Medium, r.qrSize, out); err != nil {
		return Asset{}, &MissingAssetError{Ref: ref, Err: err}
	}
	return Asset{Path: out, Width: r.qrSize, Height: r.qrSize}, nil
}
