package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// SupabaseStore uploads to a Supabase Storage bucket over its REST API.
type SupabaseStore struct {
	baseURL    string
	bucket     string
	httpClient *http.Client
}

func NewSupabaseStore(baseURL, serviceKey, bucket string) *SupabaseStore {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: 60 * time.Second})
	return &SupabaseStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		httpClient: oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: serviceKey, TokenType: "Bearer"})),
	}
}

type storageError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func (s *SupabaseStore) Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error {
	url := s.baseURL + "/storage/v1/object/" + s.bucket + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if size > 0 {
		req.ContentLength = size
	}
	req.Header.Set("x-upsert", "false")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var se storageError
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&se)
		return fmt.Errorf("storage upload returned %d: %s %s", resp.StatusCode, se.Error, se.Message)
	}
	return nil
}

func (s *SupabaseStore) PublicURL(path string) string {
	return s.baseURL + "/storage/v1/object/public/" + s.bucket + "/" + strings.TrimLeft(path, "/")
}
