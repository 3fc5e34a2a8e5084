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

const maxTitleLength = 200

// Paging holds the default and maximum page sizes for listings.
type Paging struct {
	Feed   int
	Search int
	Max    int
}

func (p Paging) clamp(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	if p.Max > 0 && limit > p.Max {
		limit = p.Max
	}
	return limit
}

type PinService struct {
	db       *gorm.DB
	identity Reconciler
	paging   Paging
	signals
}

func NewPinService(db *gorm.DB, identity Reconciler, paging Paging, rv cache.Revalidator, pub events.Publisher) *PinService {
	if paging.Feed <= 0 {
		paging.Feed = 40
	}
	if paging.Search <= 0 {
		paging.Search = 50
	}
	return &PinService{db: db, identity: identity, paging: paging, signals: newSignals(rv, pub)}
}

type CreatePinInput struct {
	Title       string
	Description string
	MediaURL    string
	MediaType   models.MediaType
	Width       int
	Height      int
}

// PinDetail is a pin with its owner and engagement counts.
type PinDetail struct {
	models.Pin
	Likes    int64 `json:"likes"`
	Saves    int64 `json:"saves"`
	Comments int64 `json:"comments"`
}

type FeedQuery struct {
	Limit  int
	Offset int
}

type SearchQuery struct {
	Text   string
	Types  []models.MediaType
	Limit  int
	Offset int
}

// Profile listing tabs.
const (
	TabCreated = "created"
	TabSaved   = "saved"
	TabLiked   = "liked"
)

func (s *PinService) CreatePin(ctx context.Context, p principal.Principal, in CreatePinInput) (*models.Pin, error) {
	title := strings.TrimSpace(in.Title)
	mediaURL := strings.TrimSpace(in.MediaURL)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength || mediaURL == "" {
		return nil, ErrInvalidPin
	}
	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = models.MediaImage
	}
	if !mediaType.Valid() {
		return nil, ErrInvalidMediaType
	}

	user, err := s.identity.Reconcile(ctx, p)
	if err != nil {
		return nil, err
	}

	pin := &models.Pin{
		Title:     title,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		Width:     in.Width,
		Height:    in.Height,
		UserID:    user.ID,
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		pin.Description = &d
	}
	if err := s.db.WithContext(ctx).Create(pin).Error; err != nil {
		return nil, fmt.Errorf("create pin: %w", err)
	}
	pin.User = user

	s.revalidate(ctx, cache.HomePath, cache.ProfilePath(user.Username))
	ev := events.New(events.PinCreated, user.ID)
	ev.PinID = pin.ID
	s.publish(ctx, ev)
	return pin, nil
}

func (s *PinService) GetPin(ctx context.Context, id uint) (*PinDetail, error) {
	db := s.db.WithContext(ctx)

	var detail PinDetail
	if err := db.Preload("User").Where("id = ?", id).Take(&detail.Pin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPinNotFound
		}
		return nil, err
	}
	if err := db.Model(&models.Like{}).Where("pin_id = ?", id).Count(&detail.Likes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Save{}).Where("pin_id = ?", id).Count(&detail.Saves).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).Where("pin_id = ?", id).Count(&detail.Comments).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// Feed lists the newest pins. Paging is a flat offset/limit window, so rows
// inserted between requests can shift the boundary.
func (s *PinService) Feed(ctx context.Context, q FeedQuery) ([]models.Pin, error) {
	var pins []models.Pin
	err := s.db.WithContext(ctx).
		Scopes(newestFirst("pins"), page(s.paging.clamp(q.Limit, s.paging.Feed), q.Offset)).
		Find(&pins).Error
	return pins, err
}

// Search matches the text case-insensitively against title and description
// and optionally restricts the media types.
func (s *PinService) Search(ctx context.Context, q SearchQuery) ([]models.Pin, error) {
	for _, t := range q.Types {
		if !t.Valid() {
			return nil, ErrInvalidMediaType
		}
	}

	query := s.db.WithContext(ctx).Model(&models.Pin{})
	if text := strings.TrimSpace(q.Text); text != "" {
		pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
		query = query.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}
	if len(q.Types) > 0 {
		query = query.Where("media_type IN ?", q.Types)
	}

	var pins []models.Pin
	err := query.
		Scopes(newestFirst("pins"), page(s.paging.clamp(q.Limit, s.paging.Search), q.Offset)).
		Find(&pins).Error
	return pins, err
}

// ListByUser backs the profile tabs: pins the user created, saved or liked.
func (s *PinService) ListByUser(ctx context.Context, userID, tab string, limit, offset int) ([]models.Pin, error) {
	query := s.db.WithContext(ctx).Model(&models.Pin{})
	switch tab {
	case "", TabCreated:
		query = query.Where("pins.user_id = ?", userID).Scopes(newestFirst("pins"))
	case TabSaved:
		query = query.Joins("JOIN saves ON saves.pin_id = pins.id").
			Where("saves.user_id = ?", userID).
			Scopes(newestFirst("saves"))
	case TabLiked:
		query = query.Joins("JOIN likes ON likes.pin_id = pins.id").
			Where("likes.user_id = ?", userID).
			Scopes(newestFirst("likes"))
	default:
		return nil, ErrInvalidTab
	}

	var pins []models.Pin
	err := query.Scopes(page(s.paging.clamp(limit, s.paging.Feed), offset)).Find(&pins).Error
	return pins, err
}

func newestFirst(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}

func page(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset < 0 {
			offset = 0
		}
		return db.Offset(offset).Limit(limit)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
