// Package imageproc provides operations on restored images: PNG conversion for download and previews for comparison.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // gemini may answer with webp
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ToPNG re-encodes an image as PNG; PNG input is passed through untouched
func ToPNG(data []byte) (io.Reader, int64, error) {
	if len(data) == 0 {
		return nil, 0, errors.New("empty image provided to ToPNG")
	}
	if bytes.HasPrefix(data, pngSignature) {
		return bytes.NewReader(data), int64(len(data)), nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image in ToPNG: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, 0, fmt.Errorf("failed to encode PNG in ToPNG: %w", err)
	}
	return &buf, int64(buf.Len()), nil
}
