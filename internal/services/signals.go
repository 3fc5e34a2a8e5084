package services

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
)

// signals fans out the post-mutation side effects. Both are best effort: the
// mutation has already committed when they run.
type signals struct {
	revalidator cache.Revalidator
	publisher   events.Publisher
}

func newSignals(rv cache.Revalidator, pub events.Publisher) signals {
	if rv == nil {
		rv = cache.Nop{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return signals{revalidator: rv, publisher: pub}
}

func (s signals) revalidate(ctx context.Context, paths ...string) {
	if err := s.revalidator.Revalidate(ctx, paths...); err != nil {
		slog.WarnContext(ctx, "view revalidation failed", "paths", paths, "error", err)
	}
}

func (s signals) publish(ctx context.Context, evs ...events.Event) {
	if err := s.publisher.Publish(ctx, evs...); err != nil {
		slog.WarnContext(ctx, "activity publish failed", "count", len(evs), "error", err)
	}
}
