package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reconciler guarantees a local user row for an authenticated principal.
type Reconciler interface {
	Reconcile(ctx context.Context, p principal.Principal) (*models.User, error)
}

type IdentityService struct {
	db *gorm.DB
	signals
	now func() time.Time
}

func NewIdentityService(db *gorm.DB, rv cache.Revalidator, pub events.Publisher) *IdentityService {
	return &IdentityService{db: db, signals: newSignals(rv, pub), now: time.Now}
}

// Reconcile makes sure the principal has a user row. The username derived
// from the claims is only claimed when the row is new or the claim itself
// changed since the last sync, so a local rename sticks. A placeholder
// account squatting on a claimed username is renamed, absorbed into the real
// user and deleted, all in one transaction.
func (s *IdentityService) Reconcile(ctx context.Context, p principal.Principal) (*models.User, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	claimed := p.DerivedUsername()

	var (
		user        models.User
		placeholder *models.User
		movedPins   []uint
		wrote       bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("id = ?", p.ID).Take(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup user: %w", err)
		}
		found := err == nil

		username := claimed
		claim := !found || existing.SyncedUsername != claimed
		if !claim {
			username = existing.Username
		}

		if claim {
			var holder models.User
			err := tx.Where("username = ?", username).Take(&holder).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
			case err != nil:
				return fmt.Errorf("lookup username holder: %w", err)
			case holder.ID == p.ID:
			case holder.IsPlaceholder():
				// Free the username before claiming it.
				renamed := retiredUsername(holder.Username, s.now())
				if err := tx.Model(&models.User{}).Where("id = ?", holder.ID).Update("username", renamed).Error; err != nil {
					return fmt.Errorf("rename placeholder %s: %w", holder.ID, err)
				}
				holder.Username = renamed
				placeholder = &holder
			case found:
				// An existing member keeps its current name rather than
				// failing every action over a name it cannot have.
				slog.WarnContext(ctx, "claimed username held by another member", "user_id", p.ID, "username", username)
				username, claim = existing.Username, false
			default:
				return ErrUsernameTaken
			}
		}

		if found && !claim && existing.SyncedUsername == claimed && upToDate(&existing, p) {
			user = existing
			return nil
		}

		row := models.User{
			ID:             p.ID,
			Username:       username,
			SyncedUsername: claimed,
			DisplayName:    strings.TrimSpace(p.FirstName + " " + p.LastName),
			Email:          p.Email,
			AvatarURL:      p.AvatarURL,
			Kind:           models.UserKindMember,
		}
		columns := []string{"synced_username", "email", "avatar_url", "kind", "updated_at"}
		if claim {
			columns = append(columns, "username")
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("upsert user: %w", err)
		}
		wrote = true

		if placeholder != nil {
			if movedPins, err = absorbPlaceholder(tx, placeholder.ID, p.ID); err != nil {
				return fmt.Errorf("absorb placeholder %s: %w", placeholder.ID, err)
			}
		}
		return tx.Where("id = ?", p.ID).Take(&user).Error
	})
	if err != nil {
		return nil, err
	}

	if placeholder != nil {
		slog.InfoContext(ctx, "placeholder absorbed", "user_id", user.ID, "placeholder_id", placeholder.ID, "username", user.Username, "pins", len(movedPins))
		ev := events.New(events.UserMerged, user.ID)
		ev.TargetUserID = placeholder.ID
		s.publish(ctx, ev)
	}
	if wrote {
		paths := []string{cache.HomePath, cache.ProfilePath(user.Username)}
		for _, id := range movedPins {
			paths = append(paths, cache.PinPath(id))
		}
		s.revalidate(ctx, paths...)
	}
	return &user, nil
}

func upToDate(u *models.User, p principal.Principal) bool {
	return u.Email == p.Email &&
		u.AvatarURL == p.AvatarURL &&
		!u.IsPlaceholder()
}

// retiredUsername appends the _old_<millis> suffix, shortening the base so
// the result still fits the username column.
func retiredUsername(name string, at time.Time) string {
	suffix := fmt.Sprintf("_old_%d", at.UnixMilli())
	base := []rune(name)
	if keep := maxUsernameLength - len(suffix); len(base) > keep {
		base = base[:keep]
	}
	return string(base) + suffix
}

// absorbPlaceholder moves everything the placeholder owns onto the real user
// and deletes it, returning the ids of the pins that changed owner. Likes,
// saves and follows are unique per pair, so they are copied with conflicts
// ignored and the originals removed afterwards.
func absorbPlaceholder(tx *gorm.DB, fromID, toID string) ([]uint, error) {
	var pinIDs []uint
	if err := tx.Model(&models.Pin{}).Where("user_id = ?", fromID).Pluck("id", &pinIDs).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Pin{}).Where("user_id = ?", fromID).Update("user_id", toID).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Comment{}).Where("user_id = ?", fromID).Update("user_id", toID).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Notification{}).Where("recipient_id = ?", fromID).Update("recipient_id", toID).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Notification{}).Where("actor_id = ?", fromID).Update("actor_id", toID).Error; err != nil {
		return nil, err
	}

	for _, table := range []string{"likes", "saves"} {
		if err := tx.Exec(
			"INSERT INTO "+table+" (user_id, pin_id, created_at) SELECT ?, pin_id, created_at FROM "+table+" WHERE user_id = ? ON CONFLICT DO NOTHING",
			toID, fromID,
		).Error; err != nil {
			return nil, err
		}
		if err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ?", fromID).Error; err != nil {
			return nil, err
		}
	}

	// Edges between the two accounts would become self-follows; drop them.
	if err := tx.Exec(
		"INSERT INTO follows (follower_id, following_id, created_at) SELECT ?, following_id, created_at FROM follows WHERE follower_id = ? AND following_id <> ? ON CONFLICT DO NOTHING",
		toID, fromID, toID,
	).Error; err != nil {
		return nil, err
	}
	if err := tx.Exec(
		"INSERT INTO follows (follower_id, following_id, created_at) SELECT follower_id, ?, created_at FROM follows WHERE following_id = ? AND follower_id <> ? ON CONFLICT DO NOTHING",
		toID, fromID, toID,
	).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("follower_id = ? OR following_id = ?", fromID, fromID).Delete(&models.Follow{}).Error; err != nil {
		return nil, err
	}

	if err := tx.Where("id = ?", fromID).Delete(&models.User{}).Error; err != nil {
		return nil, err
	}
	return pinIDs, nil
}
