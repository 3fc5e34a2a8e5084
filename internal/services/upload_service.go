package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/storage"
	"github.com/rs/xid"
)

type UploadService struct {
	store    storage.ObjectStore
	maxBytes int64
	now      func() time.Time
}

func NewUploadService(store storage.ObjectStore, maxMB int) *UploadService {
	if maxMB <= 0 {
		maxMB = 50
	}
	return &UploadService{store: store, maxBytes: int64(maxMB) << 20, now: time.Now}
}

type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type UploadResult struct {
	PublicURL string           `json:"publicUrl"`
	Path      string           `json:"path"`
	MediaType models.MediaType `json:"mediaType"`
	Width     int              `json:"width,omitempty"`
	Height    int              `json:"height,omitempty"`
}

// Upload stores the file under uploads/{unix millis}-{random}.{ext} and
// returns its public URL. The extension and stored content type come from
// the allowed formats, never verbatim from the client.
func (s *UploadService) Upload(ctx context.Context, p principal.Principal, in UploadInput) (*UploadResult, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	mediaType, err := media.Classify(in.ContentType, in.Filename)
	if err != nil {
		return nil, ErrUnsupportedMedia
	}
	ext, contentType, err := media.StoredFormat(mediaType, in.ContentType, in.Filename)
	if err != nil {
		return nil, ErrUnsupportedMedia
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	path := fmt.Sprintf("uploads/%d-%s.%s", s.now().UnixMilli(), xid.New().String(), ext)

	res := &UploadResult{Path: path, MediaType: mediaType}
	if mediaType == models.MediaImage {
		if w, h, err := media.Dimensions(bytes.NewReader(buf.Bytes())); err == nil {
			res.Width, res.Height = w, h
		}
	}

	if err := s.store.Put(ctx, path, contentType, bytes.NewReader(buf.Bytes()), n); err != nil {
		slog.ErrorContext(ctx, "upload to object storage failed", "user_id", p.ID, "action", "upload", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	res.PublicURL = s.store.PublicURL(path)
	return res, nil
}
