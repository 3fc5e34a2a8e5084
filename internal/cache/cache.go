package cache

import (
	"context"
	"fmt"
	"net/url"
)

// HomePath is the view key of the home feed.
const HomePath = "/"

func PinPath(pinID uint) string {
	return fmt.Sprintf("/pin/%d", pinID)
}

func ProfilePath(username string) string {
	return "/profile/" + url.PathEscape(username)
}

// Revalidator invalidates cached renders of named view paths.
type Revalidator interface {
	Revalidate(ctx context.Context, paths ...string) error
}

// ViewCache stores rendered view payloads. A path may hold several variants
// (one per query string); revalidating the path drops all of them.
type ViewCache interface {
	Revalidator
	Get(ctx context.Context, path, variant string) ([]byte, bool, error)
	Set(ctx context.Context, path, variant string, body []byte) error
	Ping(ctx context.Context) error
}

// Nop is used when no cache backend is configured.
type Nop struct{}

func (Nop) Revalidate(context.Context, ...string) error { return nil }

func (Nop) Get(context.Context, string, string) ([]byte, bool, error) { return nil, false, nil }

func (Nop) Set(context.Context, string, string, []byte) error { return nil }

func (Nop) Ping(context.Context) error { return nil }
