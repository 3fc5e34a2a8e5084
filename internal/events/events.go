package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	PinCreated     Type = "pin.created"
	PinLiked       Type = "pin.liked"
	PinUnliked     Type = "pin.unliked"
	PinSaved       Type = "pin.saved"
	PinUnsaved     Type = "pin.unsaved"
	CommentCreated Type = "comment.created"
	UserFollowed   Type = "user.followed"
	UserUnfollowed Type = "user.unfollowed"
	UserMerged     Type = "user.merged"
)

// Event is one activity record on the activity topic.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Type         Type      `json:"type"`
	ActorID      string    `json:"actorId"`
	PinID        uint      `json:"pinId,omitempty"`
	TargetUserID string    `json:"targetUserId,omitempty"`
	CommentID    uint      `json:"commentId,omitempty"`
	Text         string    `json:"text,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

func New(t Type, actorID string) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// Nop drops events; used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, ...Event) error { return nil }
