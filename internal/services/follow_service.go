package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"gorm.io/gorm"
)

type FollowService struct {
	db       *gorm.DB
	identity Reconciler
	signals
}

func NewFollowService(db *gorm.DB, identity Reconciler, rv cache.Revalidator, pub events.Publisher) *FollowService {
	return &FollowService{db: db, identity: identity, signals: newSignals(rv, pub)}
}

// ToggleFollow flips the principal's follow edge towards targetID and reports
// whether the principal follows the target afterwards.
func (s *FollowService) ToggleFollow(ctx context.Context, p principal.Principal, targetID string) (bool, error) {
	if !p.Authenticated() {
		return false, ErrUnauthorized
	}
	if p.ID == targetID {
		return false, ErrSelfFollow
	}

	user, err := s.identity.Reconcile(ctx, p)
	if err != nil {
		return false, err
	}

	var (
		target    models.User
		following bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", targetID).Take(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		var err error
		following, err = toggleRow(tx,
			&models.Follow{FollowerID: user.ID, FollowingID: targetID},
			&models.Follow{},
			"follower_id = ? AND following_id = ?", user.ID, targetID,
		)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, err
		}
		return false, fmt.Errorf("toggle follow %s: %w", targetID, err)
	}

	s.revalidate(ctx, cache.ProfilePath(target.Username), cache.ProfilePath(user.Username), cache.HomePath)
	ev := events.New(events.UserUnfollowed, user.ID)
	if following {
		ev.Type = events.UserFollowed
	}
	ev.TargetUserID = targetID
	s.publish(ctx, ev)
	return following, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return exists(s.db.WithContext(ctx), &models.Follow{}, "follower_id = ? AND following_id = ?", followerID, followingID)
}
