package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationService turns activity events into inbox entries.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

var eventKinds = map[events.Type]models.NotificationKind{
	events.PinLiked:       models.NotifyLike,
	events.PinSaved:       models.NotifySave,
	events.CommentCreated: models.NotifyComment,
	events.UserFollowed:   models.NotifyFollow,
}

// Record stores a notification for the user the event is about. Events that
// don't notify anyone are ignored; redelivered events are deduplicated by ID.
func (s *NotificationService) Record(ctx context.Context, ev events.Event) error {
	kind, ok := eventKinds[ev.Type]
	if !ok {
		return nil
	}
	db := s.db.WithContext(ctx)

	n := models.Notification{
		ID:      uuid.New(),
		EventID: ev.ID,
		ActorID: ev.ActorID,
		Kind:    kind,
	}
	if kind == models.NotifyFollow {
		n.RecipientID = ev.TargetUserID
	} else {
		var pin models.Pin
		if err := db.Select("id", "user_id").Where("id = ?", ev.PinID).Take(&pin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("lookup pin %d: %w", ev.PinID, err)
		}
		n.RecipientID = pin.UserID
		pinID := pin.ID
		n.PinID = &pinID
	}
	if n.RecipientID == "" || n.RecipientID == ev.ActorID {
		return nil
	}

	if ev.Text != "" {
		payload, err := json.Marshal(map[string]string{"text": ev.Text})
		if err != nil {
			return err
		}
		n.Payload = datatypes.JSON(payload)
	}
	if !ev.OccurredAt.IsZero() {
		n.CreatedAt = ev.OccurredAt
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&n).Error
}

func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []models.Notification
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkRead stamps the given unread notifications of userID and returns how
// many changed.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND id IN ? AND read_at IS NULL", userID, ids).
		Update("read_at", time.Now())
	return res.RowsAffected, res.Error
}
