package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/principal"
	"gorm.io/gorm"
)

const maxUsernameLength = 64

type ProfileService struct {
	db       *gorm.DB
	provider identity.Provider
	signals
}

func NewProfileService(db *gorm.DB, provider identity.Provider, rv cache.Revalidator) *ProfileService {
	if provider == nil {
		provider = identity.Nop{}
	}
	return &ProfileService{db: db, provider: provider, signals: newSignals(rv, nil)}
}

type Profile struct {
	User      models.User `json:"user"`
	Posts     int64       `json:"posts"`
	Followers int64       `json:"followers"`
	Following int64       `json:"following"`
}

type UpdateProfileInput struct {
	DisplayName string
	Username    string
	Bio         string
}

func (s *ProfileService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	db := s.db.WithContext(ctx)

	var profile Profile
	if err := db.Where("username = ?", username).Take(&profile.User).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	id := profile.User.ID
	if err := db.Model(&models.Pin{}).Where("user_id = ?", id).Count(&profile.Posts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Follow{}).Where("following_id = ?", id).Count(&profile.Followers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&profile.Following).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile writes the local profile first and then mirrors the display
// name and username to the identity provider. Only a username clash at the
// provider is reported; the local update stands either way.
func (s *ProfileService) UpdateProfile(ctx context.Context, p principal.Principal, in UpdateProfileInput) (*models.User, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, ErrInvalidUsername
	}
	displayName := strings.TrimSpace(in.DisplayName)
	bio := strings.TrimSpace(in.Bio)

	var (
		user        models.User
		oldUsername string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", p.ID).Take(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		oldUsername = user.Username

		taken, err := exists(tx, &models.User{}, "username = ? AND id <> ?", username, p.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}

		if err := tx.Model(&user).Updates(map[string]interface{}{
			"display_name": displayName,
			"username":     username,
			"bio":          bio,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return err
		}
		user.DisplayName, user.Username, user.Bio = displayName, username, bio
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	paths := []string{cache.ProfilePath(username), cache.HomePath}
	if oldUsername != username {
		paths = append(paths, cache.ProfilePath(oldUsername))
	}
	defer s.revalidate(ctx, paths...)

	if err := s.provider.UpdateUser(ctx, p.ID, identity.UpdateUserParams{
		Username:  &username,
		FirstName: &displayName,
	}); err != nil {
		if identity.HasCode(err, identity.CodeIdentifierExists) {
			slog.WarnContext(ctx, "provider rejected username", "user_id", p.ID, "username", username)
			return nil, ErrUsernameTaken
		}
		slog.ErrorContext(ctx, "identity provider sync failed", "user_id", p.ID, "action", "update_profile", "error", err)
	}
	return &user, nil
}
