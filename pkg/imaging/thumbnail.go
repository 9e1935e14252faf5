// Package imaging renders item icons and covers as fixed size thumbnails.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/webp"
)

// DefaultThumbnailSize is the edge length used by the CLI
const DefaultThumbnailSize = 144

// Thumbnailer scales images to a square PNG
type Thumbnailer struct {
	size uint
}

// NewThumbnailer creates a thumbnailer producing size x size images.
// A zero size selects DefaultThumbnailSize.
func NewThumbnailer(size uint) *Thumbnailer {
	if size == 0 {
		size = DefaultThumbnailSize
	}
	return &Thumbnailer{size: size}
}

// Thumbnail decodes a PNG, JPEG, GIF or WebP image and returns it resized
// and PNG encoded. ext is a hint taken from the asset name; WebP content is
// also recognised by its header.
func (t *Thumbnailer) Thumbnail(data []byte, ext string) ([]byte, error) {
	var (
		img image.Image
		err error
	)

	if strings.EqualFold(ext, ".webp") || isWebP(data) {
		img, err = webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode webp: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
	}

	resized := resize.Resize(t.size, t.size, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}
