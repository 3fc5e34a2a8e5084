package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"gorm.io/gorm"
)

const (
	maxCommentLength = 500
	maxCommentPage   = 100
)

// InteractionService handles likes, saves and comments on pins.
type InteractionService struct {
	db       *gorm.DB
	identity Reconciler
	signals
}

func NewInteractionService(db *gorm.DB, identity Reconciler, rv cache.Revalidator, pub events.Publisher) *InteractionService {
	return &InteractionService{db: db, identity: identity, signals: newSignals(rv, pub)}
}

// PinState is the viewer-specific state of a pin.
type PinState struct {
	Liked bool `json:"isLiked"`
	Saved bool `json:"isSaved"`
}

// ToggleLike flips the principal's like on a pin and reports whether the pin
// is liked afterwards.
func (s *InteractionService) ToggleLike(ctx context.Context, p principal.Principal, pinID uint) (bool, error) {
	user, err := s.identity.Reconcile(ctx, p)
	if err != nil {
		return false, err
	}
	liked, err := s.toggle(ctx, pinID, &models.Like{UserID: user.ID, PinID: pinID}, &models.Like{}, user.ID)
	if err != nil {
		return false, err
	}

	s.revalidate(ctx, cache.PinPath(pinID), cache.HomePath, cache.ProfilePath(user.Username))
	ev := events.New(events.PinUnliked, user.ID)
	if liked {
		ev.Type = events.PinLiked
	}
	ev.PinID = pinID
	s.publish(ctx, ev)
	return liked, nil
}

// ToggleSave flips the principal's save on a pin and reports whether the pin
// is saved afterwards.
func (s *InteractionService) ToggleSave(ctx context.Context, p principal.Principal, pinID uint) (bool, error) {
	user, err := s.identity.Reconcile(ctx, p)
	if err != nil {
		return false, err
	}
	saved, err := s.toggle(ctx, pinID, &models.Save{UserID: user.ID, PinID: pinID}, &models.Save{}, user.ID)
	if err != nil {
		return false, err
	}

	s.revalidate(ctx, cache.PinPath(pinID), cache.HomePath, cache.ProfilePath(user.Username))
	ev := events.New(events.PinUnsaved, user.ID)
	if saved {
		ev.Type = events.PinSaved
	}
	ev.PinID = pinID
	s.publish(ctx, ev)
	return saved, nil
}

func (s *InteractionService) toggle(ctx context.Context, pinID uint, row, model interface{}, userID string) (bool, error) {
	var active bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Pin{}, "id = ?", pinID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPinNotFound
		}
		active, err = toggleRow(tx, row, model, "user_id = ? AND pin_id = ?", userID, pinID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPinNotFound) {
			return false, err
		}
		return false, fmt.Errorf("toggle on pin %d: %w", pinID, err)
	}
	return active, nil
}

// AddComment appends a comment to a pin. The returned comment carries its
// author so callers can render it without another read.
func (s *InteractionService) AddComment(ctx context.Context, p principal.Principal, pinID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxCommentLength {
		return nil, ErrInvalidComment
	}

	user, err := s.identity.Reconcile(ctx, p)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	ok, err := exists(db, &models.Pin{}, "id = ?", pinID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPinNotFound
	}

	comment := &models.Comment{PinID: pinID, UserID: user.ID, Content: content}
	if err := db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.User = user

	s.revalidate(ctx, cache.PinPath(pinID))
	ev := events.New(events.CommentCreated, user.ID)
	ev.PinID = pinID
	ev.CommentID = comment.ID
	ev.Text = content
	s.publish(ctx, ev)
	return comment, nil
}

// ListComments returns a pin's comments, newest first.
func (s *InteractionService) ListComments(ctx context.Context, pinID uint, limit int) ([]models.Comment, error) {
	if limit <= 0 || limit > maxCommentPage {
		limit = maxCommentPage
	}
	db := s.db.WithContext(ctx)
	ok, err := exists(db, &models.Pin{}, "id = ?", pinID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPinNotFound
	}

	var comments []models.Comment
	err = db.Preload("User").
		Where("pin_id = ?", pinID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (s *InteractionService) State(ctx context.Context, userID string, pinID uint) (PinState, error) {
	db := s.db.WithContext(ctx)
	var state PinState
	var err error
	if state.Liked, err = exists(db, &models.Like{}, "user_id = ? AND pin_id = ?", userID, pinID); err != nil {
		return PinState{}, err
	}
	if state.Saved, err = exists(db, &models.Save{}, "user_id = ? AND pin_id = ?", userID, pinID); err != nil {
		return PinState{}, err
	}
	return state, nil
}
