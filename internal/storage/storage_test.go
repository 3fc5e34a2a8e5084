package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorePut(t *testing.T) {
	root := t.TempDir()
	s, err := NewDiskStore(root, "http://cdn.example.test/uploads/")
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "uploads/1-abc.png", "image/png", strings.NewReader("png-bytes"), 9))

	got, err := os.ReadFile(filepath.Join(root, "uploads", "1-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))
	assert.Equal(t, "http://cdn.example.test/uploads/uploads/1-abc.png", s.PublicURL("uploads/1-abc.png"))
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	s, err := NewDiskStore(root, "")
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "../../escape.txt", "", strings.NewReader("x"), 1))
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err, "path is confined to the root")

	assert.Error(t, s.Put(context.Background(), "/", "", strings.NewReader("x"), 1))
}

func TestSupabaseStorePut(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"slika-uploads/uploads/x.mp4"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStore(srv.URL, "service-key", "slika-uploads")
	require.NoError(t, s.Put(context.Background(), "uploads/x.mp4", "video/mp4", strings.NewReader("vid"), 3))

	assert.Equal(t, "/storage/v1/object/slika-uploads/uploads/x.mp4", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "video/mp4", gotType)
	assert.Equal(t, "vid", gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/slika-uploads/uploads/x.mp4", s.PublicURL("uploads/x.mp4"))
}

func TestSupabaseStorePutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStore(srv.URL, "k", "b")
	err := s.Put(context.Background(), "uploads/x.png", "image/png", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "Duplicate")
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()

	s, err := New(&config.Config{StorageDriver: "disk", UploadDir: dir, StoragePublicBase: "http://localhost:8080"})
	require.NoError(t, err)
	assert.IsType(t, &DiskStore{}, s)
	assert.Equal(t, "http://localhost:8080/uploads/a.png", s.PublicURL("uploads/a.png"))
	assert.Equal(t, filepath.Join(dir, "uploads"), DiskServeRoot(&config.Config{UploadDir: dir}))

	s, err = New(&config.Config{StorageDriver: "supabase", StorageURL: "https://x.supabase.co", StorageServiceKey: "k", StorageBucket: "b"})
	require.NoError(t, err)
	assert.IsType(t, &SupabaseStore{}, s)

	_, err = New(&config.Config{StorageDriver: "supabase"})
	assert.Error(t, err)
	_, err = New(&config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}
