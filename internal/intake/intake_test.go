package intake

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     error
	}{
		{name: "jpeg ok", contentType: "image/jpeg", size: 2 << 20},
		{name: "png at ceiling", contentType: "image/png", size: model.MaxUploadSize},
		{name: "webp with params", contentType: "image/webp; charset=binary", size: 10},
		{name: "uppercase type", contentType: "IMAGE/PNG", size: 10},
		{name: "one byte over", contentType: "image/png", size: model.MaxUploadSize + 1, wantErr: model.ErrFileTooLarge},
		{name: "pdf", contentType: "application/pdf", size: 10, wantErr: model.ErrUnsupportedType},
		{name: "text", contentType: "text/plain", size: 10, wantErr: model.ErrUnsupportedType},
		{name: "empty type", contentType: "", size: 10, wantErr: model.ErrUnsupportedType},
		{name: "type checked before size", contentType: "video/mp4", size: model.MaxUploadSize * 2, wantErr: model.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.contentType, tt.size)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAccept_RoundTrip(t *testing.T) {
	data := make([]byte, 2<<20)
	_, err := rand.Read(data)
	require.NoError(t, err)

	encoded, err := Accept(&model.UploadData{
		File:        bytes.NewReader(data),
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "data:image/jpeg;base64,"))

	mediaType, decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, model.JPEG, mediaType)
	require.Equal(t, data, decoded)
}

func TestAccept_Rejections(t *testing.T) {
	oversized := bytes.Repeat([]byte{0xff}, int(model.MaxUploadSize)+1)

	tests := []struct {
		name    string
		upload  *model.UploadData
		wantErr error
	}{
		{
			name:    "nil upload",
			upload:  nil,
			wantErr: model.ErrEmptyFile,
		},
		{
			name:    "non-image",
			upload:  &model.UploadData{File: strings.NewReader("%PDF-1.4"), ContentType: "application/pdf", Size: 8},
			wantErr: model.ErrUnsupportedType,
		},
		{
			name:    "declared too large",
			upload:  &model.UploadData{File: strings.NewReader("x"), ContentType: "image/png", Size: model.MaxUploadSize + 1},
			wantErr: model.ErrFileTooLarge,
		},
		{
			name:    "declared small but actually too large",
			upload:  &model.UploadData{File: bytes.NewReader(oversized), ContentType: "image/png", Size: 100},
			wantErr: model.ErrFileTooLarge,
		},
		{
			name:    "empty body",
			upload:  &model.UploadData{File: strings.NewReader(""), ContentType: "image/png", Size: 0},
			wantErr: model.ErrEmptyFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Accept(tt.upload)
			require.ErrorIs(t, err, tt.wantErr)
			require.Empty(t, encoded)
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name        string
		encoded     string
		wantType    string
		wantPayload string
	}{
		{name: "png data url", encoded: "data:image/png;base64,AAAA", wantType: "image/png", wantPayload: "AAAA"},
		{name: "webp data url", encoded: "data:image/webp;base64,QUJD", wantType: "image/webp", wantPayload: "QUJD"},
		{name: "bare payload", encoded: "QUJD", wantType: "image/png", wantPayload: "QUJD"},
		{name: "missing media type", encoded: "data:;base64,QUJD", wantType: "image/png", wantPayload: "QUJD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mediaType, payload := Split(tt.encoded)
			require.Equal(t, tt.wantType, mediaType)
			require.Equal(t, tt.wantPayload, payload)
		})
	}
}

func TestDecode_InvalidPayload(t *testing.T) {
	_, _, err := Decode("data:image/png;base64,@@not-base64@@")
	require.ErrorIs(t, err, model.ErrInvalidImage)
}
