package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRevalidator struct {
	mu    sync.Mutex
	paths []string
	calls int
}

func (f *fakeRevalidator) Revalidate(_ context.Context, paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.paths = append(f.paths, paths...)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	fail   bool
}

func (f *fakePublisher) Publish(_ context.Context, evs ...events.Event) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evs...)
	return nil
}

func (f *fakePublisher) types() []events.Type {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.Type, len(f.events))
	for i, ev := range f.events {
		out[i] = ev.Type
	}
	return out
}

type fakeProvider struct {
	calls []identity.UpdateUserParams
	err   error
}

func (f *fakeProvider) UpdateUser(_ context.Context, _ string, params identity.UpdateUserParams) error {
	f.calls = append(f.calls, params)
	return f.err
}

type fakeStore struct {
	puts  map[string][]byte
	types map[string]string
	err   error
}

func (f *fakeStore) Put(_ context.Context, path, contentType string, body io.Reader, _ int64) error {
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
		f.types = map[string]string{}
	}
	f.puts[path] = b
	f.types[path] = contentType
	return nil
}

func (f *fakeStore) PublicURL(path string) string {
	return "https://cdn.example.test/" + path
}

func seedUser(t *testing.T, db *gorm.DB, id, username string, kind models.UserKind) models.User {
	t.Helper()
	u := models.User{ID: id, Username: username, Kind: kind}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedPin(t *testing.T, db *gorm.DB, ownerID, title string, mediaType models.MediaType, createdAt time.Time) models.Pin {
	t.Helper()
	p := models.Pin{Title: title, MediaURL: "https://cdn.example.test/" + title, MediaType: mediaType, UserID: ownerID, CreatedAt: createdAt}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func alice() principal.Principal {
	return principal.Principal{ID: "user_alice01", Username: "alice", FirstName: "Alice", Email: "alice@example.test", AvatarURL: "https://img.example.test/alice.png"}
}

func bob() principal.Principal {
	return principal.Principal{ID: "user_bob0002", Username: "bob", Email: "bob@example.test"}
}
