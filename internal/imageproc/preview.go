package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const (
	DefaultPreviewSize = 1024
	previewQuality     = 85
)

// Preview fits the image into a side x side box keeping its proportions and encodes it as JPEG.
// Images already inside the box keep their dimensions.
func Preview(data []byte, side int) (io.Reader, int64, error) {
	if len(data) == 0 {
		return nil, 0, errors.New("empty image provided to Preview")
	}
	if side <= 0 {
		side = DefaultPreviewSize
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image in Preview: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > side || b.Dy() > side {
		img = imaging.Fit(img, side, side, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(previewQuality)); err != nil {
		return nil, 0, fmt.Errorf("failed to encode preview: %w", err)
	}
	return &buf, int64(buf.Len()), nil
}
