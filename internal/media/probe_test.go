package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		filename    string
		want        models.MediaType
		wantErr     bool
	}{
		{"image/png", "a.png", models.MediaImage, false},
		{"video/mp4", "clip", models.MediaVideo, false},
		{"application/octet-stream", "clip.MOV", models.MediaVideo, false},
		{"", "photo.webp", models.MediaImage, false},
		{"text/plain", "notes.txt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.contentType+"/"+tt.filename, func(t *testing.T) {
			got, err := Classify(tt.contentType, tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 12, 34))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	w, h, err := Dimensions(&buf)
	require.NoError(t, err)
	assert.Equal(t, 12, w)
	assert.Equal(t, 34, h)

	_, _, err = Dimensions(strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", Extension("Holiday.JPG"))
	assert.Equal(t, "", Extension("README"))
}

func TestStoredFormat(t *testing.T) {
	tests := []struct {
		name        string
		mediaType   models.MediaType
		contentType string
		filename    string
		wantExt     string
		wantType    string
		wantErr     bool
	}{
		{"client extension kept", models.MediaImage, "image/png", "Beach.PNG", "png", "image/png", false},
		{"extension from content type", models.MediaImage, "image/jpeg", "photo", "jpg", "image/jpeg", false},
		{"html name rewritten", models.MediaImage, "image/png", "evil.html", "png", "image/png", false},
		{"video extension on image", models.MediaImage, "image/webp", "x.mp4", "webp", "image/webp", false},
		{"quicktime", models.MediaVideo, "video/quicktime", "clip", "mov", "video/quicktime", false},
		{"svg rejected", models.MediaImage, "image/svg+xml", "logo.svg", "", "", true},
		{"html with unknown type", models.MediaImage, "image/x-icon", "evil.html", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, ct, err := StoredFormat(tt.mediaType, tt.contentType, tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
			assert.Equal(t, tt.wantType, ct)
		})
	}
}
