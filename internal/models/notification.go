package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationKind string

const (
	NotifyLike    NotificationKind = "like"
	NotifySave    NotificationKind = "save"
	NotifyComment NotificationKind = "comment"
	NotifyFollow  NotificationKind = "follow"
)

// Notification is an inbox entry derived from another user's activity.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	EventID     uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_notifications_event" json:"-"`
	RecipientID string           `gorm:"size:64;not null;index" json:"recipientId"`
	ActorID     string           `gorm:"size:64;not null" json:"actorId"`
	Kind        NotificationKind `gorm:"size:20;not null" json:"kind"`
	PinID       *uint            `json:"pinId,omitempty"`
	Payload     datatypes.JSON   `json:"payload,omitempty"`
	ReadAt      *time.Time       `json:"readAt,omitempty"`
	CreatedAt   time.Time        `gorm:"index" json:"createdAt"`
}
