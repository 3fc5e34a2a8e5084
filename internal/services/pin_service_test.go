package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPinFixture(t *testing.T) (*PinService, *gorm.DB, *fakeRevalidator, *fakePublisher) {
	t.Helper()
	db := testutil.NewDB(t)
	rv := &fakeRevalidator{}
	pub := &fakePublisher{}
	svc := NewPinService(db, NewIdentityService(db, nil, nil), Paging{Feed: 40, Search: 50, Max: 100}, rv, pub)
	return svc, db, rv, pub
}

func TestCreatePin(t *testing.T) {
	svc, _, rv, pub := newPinFixture(t)

	pin, err := svc.CreatePin(context.Background(), alice(), CreatePinInput{
		Title:       " Dunes ",
		Description: "sand at dusk",
		MediaURL:    "https://cdn.example.test/dunes.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dunes", pin.Title)
	assert.Equal(t, models.MediaImage, pin.MediaType)
	require.NotNil(t, pin.Description)
	assert.Equal(t, "sand at dusk", *pin.Description)
	assert.Equal(t, alice().ID, pin.UserID)
	require.NotNil(t, pin.User)
	assert.Equal(t, "alice", pin.User.Username)

	assert.Contains(t, rv.paths, "/profile/alice")
	assert.Equal(t, []events.Type{events.PinCreated}, pub.types())
	assert.Equal(t, pin.ID, pub.events[0].PinID)
}

func TestCreatePinValidation(t *testing.T) {
	svc, _, _, _ := newPinFixture(t)

	tests := []struct {
		name string
		in   CreatePinInput
		want error
	}{
		{"missing title", CreatePinInput{MediaURL: "https://x/y.png"}, ErrInvalidPin},
		{"missing media", CreatePinInput{Title: "t"}, ErrInvalidPin},
		{"bad type", CreatePinInput{Title: "t", MediaURL: "https://x/y", MediaType: "audio"}, ErrInvalidMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePin(context.Background(), alice(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetPin(t *testing.T) {
	svc, db, _, _ := newPinFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db, "user_owner", "owner", models.UserKindMember)
	pin := seedPin(t, db, owner.ID, "lake", models.MediaImage, time.Now())
	require.NoError(t, db.Create(&models.Like{UserID: "user_a", PinID: pin.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: "user_b", PinID: pin.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{UserID: "user_a", PinID: pin.ID, Content: "nice"}).Error)

	detail, err := svc.GetPin(ctx, pin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.Likes)
	assert.Zero(t, detail.Saves)
	assert.Equal(t, int64(1), detail.Comments)
	require.NotNil(t, detail.User)
	assert.Equal(t, "owner", detail.User.Username)

	_, err = svc.GetPin(ctx, pin.ID+100)
	assert.ErrorIs(t, err, ErrPinNotFound)
}

func TestFeedOrderAndLimit(t *testing.T) {
	svc, db, _, _ := newPinFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db, "user_owner", "owner", models.UserKindMember)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		seedPin(t, db, owner.ID, fmt.Sprintf("pin-%02d", i), models.MediaImage, base.Add(time.Duration(i)*time.Minute))
	}

	pins, err := svc.Feed(ctx, FeedQuery{})
	require.NoError(t, err)
	require.Len(t, pins, 40)
	assert.Equal(t, "pin-44", pins[0].Title)
	for i := 1; i < len(pins); i++ {
		assert.False(t, pins[i].CreatedAt.After(pins[i-1].CreatedAt))
	}

	rest, err := svc.Feed(ctx, FeedQuery{Offset: 40})
	require.NoError(t, err)
	require.Len(t, rest, 5)
	assert.Equal(t, "pin-00", rest[4].Title)

	capped, err := svc.Feed(ctx, FeedQuery{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, capped, 45)
}

func TestSearch(t *testing.T) {
	svc, db, _, _ := newPinFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db, "user_owner", "owner", models.UserKindMember)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedPin(t, db, owner.ID, "Mountain Sunrise", models.MediaImage, base)
	seedPin(t, db, owner.ID, "mountain timelapse", models.MediaVideo, base.Add(time.Minute))
	seedPin(t, db, owner.ID, "100% coffee", models.MediaImage, base.Add(2*time.Minute))
	described := seedPin(t, db, owner.ID, "untitled", models.MediaImage, base.Add(3*time.Minute))
	desc := "a foggy MOUNTAIN pass"
	require.NoError(t, db.Model(&described).Update("description", desc).Error)

	tests := []struct {
		name  string
		query SearchQuery
		want  []string
	}{
		{"case insensitive title and description", SearchQuery{Text: "MOUNTAIN"}, []string{"untitled", "mountain timelapse", "Mountain Sunrise"}},
		{"video only", SearchQuery{Text: "mountain", Types: []models.MediaType{models.MediaVideo}}, []string{"mountain timelapse"}},
		{"literal percent", SearchQuery{Text: "%"}, []string{"100% coffee"}},
		{"no filters", SearchQuery{Limit: 2}, []string{"untitled", "100% coffee"}},
		{"no match", SearchQuery{Text: "ocean"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pins, err := svc.Search(ctx, tt.query)
			require.NoError(t, err)
			titles := make([]string, 0, len(pins))
			for _, p := range pins {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}

	_, err := svc.Search(ctx, SearchQuery{Types: []models.MediaType{"gif"}})
	assert.ErrorIs(t, err, ErrInvalidMediaType)
}

func TestListByUserTabs(t *testing.T) {
	svc, db, _, _ := newPinFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db, "user_owner", "owner", models.UserKindMember)
	fan := seedUser(t, db, "user_fan", "fan", models.UserKindMember)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p1 := seedPin(t, db, owner.ID, "one", models.MediaImage, base)
	p2 := seedPin(t, db, owner.ID, "two", models.MediaImage, base.Add(time.Minute))
	mine := seedPin(t, db, fan.ID, "mine", models.MediaImage, base.Add(2*time.Minute))

	require.NoError(t, db.Create(&models.Save{UserID: fan.ID, PinID: p1.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, PinID: p2.ID}).Error)

	created, err := svc.ListByUser(ctx, fan.ID, TabCreated, 0, 0)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, mine.ID, created[0].ID)

	saved, err := svc.ListByUser(ctx, fan.ID, TabSaved, 0, 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, p1.ID, saved[0].ID)

	liked, err := svc.ListByUser(ctx, fan.ID, TabLiked, 0, 0)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, p2.ID, liked[0].ID)

	_, err = svc.ListByUser(ctx, fan.ID, "drafts", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidTab)
}
