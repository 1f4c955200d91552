// Package intake validates uploaded images and converts them to self-describing data URLs
package intake

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

// Validate checks the declared media type and size of a candidate file
func Validate(contentType string, size int64) error {
	mediaType, err := normalizeMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return model.ErrUnsupportedType
	}
	if size > model.MaxUploadSize {
		return model.ErrFileTooLarge
	}
	return nil
}

// Accept validates the upload and returns its encoded representation.
// The declared size is not trusted: at most MaxUploadSize+1 bytes are read.
func Accept(upload *model.UploadData) (string, error) {
	if upload == nil || upload.File == nil {
		return "", model.ErrEmptyFile
	}
	if err := Validate(upload.ContentType, upload.Size); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(upload.File, model.MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > model.MaxUploadSize {
		return "", model.ErrFileTooLarge
	}
	if len(data) == 0 {
		return "", model.ErrEmptyFile
	}

	mediaType, _ := normalizeMediaType(upload.ContentType)
	return Encode(mediaType, data), nil
}

// Encode wraps raw bytes as data:<mediaType>;base64,<payload>
func Encode(mediaType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(dataPrefix) + len(mediaType) + len(base64Marker) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(dataPrefix)
	b.WriteString(mediaType)
	b.WriteString(base64Marker)
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Split separates the media type from the base64 payload. A string without
// a data-URL prefix is treated as a bare PNG payload.
func Split(encoded string) (mediaType, payload string) {
	if !strings.HasPrefix(encoded, dataPrefix) {
		return model.PNG, encoded
	}
	head, body, found := strings.Cut(encoded[len(dataPrefix):], base64Marker)
	if !found {
		return model.PNG, encoded
	}
	if head == "" {
		head = model.PNG
	}
	return head, body
}

// Decode returns the media type and raw bytes of an encoded image
func Decode(encoded string) (string, []byte, error) {
	mediaType, payload := Split(encoded)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}
	return mediaType, data, nil
}

// MediaType reports the media type carried by an encoded image
func MediaType(encoded string) string {
	mediaType, _ := Split(encoded)
	return mediaType
}

// Reader is a convenience for handlers streaming decoded bytes
func Reader(encoded string) (io.Reader, string, error) {
	mediaType, data, err := Decode(encoded)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), mediaType, nil
}

func normalizeMediaType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(contentType))
	if err != nil {
		return "", err
	}
	return strings.ToLower(mediaType), nil
}
