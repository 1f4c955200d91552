package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func testImageBytes(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 100, G: 100, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, format)
	require.NoError(t, err)

	return buf.Bytes()
}

func mustDecode(t *testing.T, r io.Reader) (image.Image, string) {
	t.Helper()

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.NotNil(t, img)

	return img, format
}

func TestToPNG(t *testing.T) {
	pngData := testImageBytes(t, 40, 30, imaging.PNG)

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
		same    bool
	}{
		{
			name: "png passes through",
			data: pngData,
			same: true,
		},
		{
			name: "jpeg converted",
			data: testImageBytes(t, 40, 30, imaging.JPEG),
		},
		{
			name: "gif converted",
			data: testImageBytes(t, 40, 30, imaging.GIF),
		},
		{
			name:    "empty data",
			data:    nil,
			wantErr: true,
		},
		{
			name:    "broken image",
			data:    []byte("not-an-image"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, size, err := ToPNG(tt.data)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Greater(t, size, int64(0))

			if tt.same {
				out, err := io.ReadAll(r)
				require.NoError(t, err)
				require.Equal(t, tt.data, out)
				return
			}

			img, format := mustDecode(t, r)
			require.Equal(t, "png", format)
			require.Equal(t, 40, img.Bounds().Dx())
			require.Equal(t, 30, img.Bounds().Dy())
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		side         int
		wantW, wantH int
		wantErr      bool
	}{
		{
			name:  "landscape fitted",
			data:  testImageBytes(t, 400, 200, imaging.PNG),
			side:  100,
			wantW: 100,
			wantH: 50,
		},
		{
			name:  "portrait fitted",
			data:  testImageBytes(t, 150, 300, imaging.JPEG),
			side:  100,
			wantW: 50,
			wantH: 100,
		},
		{
			name:  "small image untouched",
			data:  testImageBytes(t, 60, 40, imaging.PNG),
			side:  100,
			wantW: 60,
			wantH: 40,
		},
		{
			name:  "default size",
			data:  testImageBytes(t, 60, 40, imaging.PNG),
			side:  0,
			wantW: 60,
			wantH: 40,
		},
		{
			name:    "broken image",
			data:    []byte("broken"),
			side:    100,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, size, err := Preview(tt.data, tt.side)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Greater(t, size, int64(0))

			img, format := mustDecode(t, r)
			require.Equal(t, "jpeg", format)
			require.Equal(t, tt.wantW, img.Bounds().Dx())
			require.Equal(t, tt.wantH, img.Bounds().Dy())
		})
	}
}
