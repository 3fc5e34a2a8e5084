package media

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
)

var ErrUnsupported = errors.New("unsupported media type")

type format struct {
	ext         string
	contentType string
	mediaType   models.MediaType
}

// formats lists every file type an upload may be stored as.
var formats = []format{
	{"jpg", "image/jpeg", models.MediaImage},
	{"jpeg", "image/jpeg", models.MediaImage},
	{"png", "image/png", models.MediaImage},
	{"gif", "image/gif", models.MediaImage},
	{"webp", "image/webp", models.MediaImage},
	{"avif", "image/avif", models.MediaImage},
	{"mp4", "video/mp4", models.MediaVideo},
	{"m4v", "video/x-m4v", models.MediaVideo},
	{"webm", "video/webm", models.MediaVideo},
	{"mov", "video/quicktime", models.MediaVideo},
	{"ogv", "video/ogg", models.MediaVideo},
}

var (
	byExt         = map[string]format{}
	byContentType = map[string]format{}
)

func init() {
	for _, f := range formats {
		byExt[f.ext] = f
		if _, ok := byContentType[f.contentType]; !ok {
			byContentType[f.contentType] = f
		}
	}
}

// Extension returns the lowercased extension of name without the dot, or "".
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Classify maps a content type (falling back to the file extension) onto a
// pin media type.
func Classify(contentType, filename string) (models.MediaType, error) {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch {
		case strings.HasPrefix(mt, "image/"):
			return models.MediaImage, nil
		case strings.HasPrefix(mt, "video/"):
			return models.MediaVideo, nil
		}
	}
	if f, ok := byExt[Extension(filename)]; ok {
		return f.mediaType, nil
	}
	return "", ErrUnsupported
}

// StoredFormat picks the extension and content type an upload of media type
// t is stored under. The client's extension is kept only when it is a known
// extension of that type; otherwise the content type decides. Anything else,
// svg and html included, is rejected.
func StoredFormat(t models.MediaType, contentType, filename string) (ext, storedType string, err error) {
	if f, ok := byExt[Extension(filename)]; ok && f.mediaType == t {
		return f.ext, f.contentType, nil
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if f, ok := byContentType[mt]; ok && f.mediaType == t {
			return f.ext, f.contentType, nil
		}
	}
	return "", "", ErrUnsupported
}

// Dimensions reads just enough of an image to report its size.
func Dimensions(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
