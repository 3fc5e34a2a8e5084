package models

import "time"

type UserKind string

const (
	UserKindMember      UserKind = "member"
	UserKindPlaceholder UserKind = "placeholder"
)

// LegacySeedPrefix marks placeholder accounts imported before Kind existed.
const LegacySeedPrefix = "user_seed_"

// User mirrors an identity-provider account. ID is the provider's stable id.
type User struct {
	ID       string `gorm:"primaryKey;size:64" json:"id"`
	Username string `gorm:"size:64;not null;uniqueIndex:idx_users_username" json:"username"`
	// SyncedUsername is the provider-side username last applied, so a local
	// rename is only overridden when the provider's value changes.
	SyncedUsername string    `gorm:"size:64" json:"-"`
	DisplayName    string    `gorm:"size:100" json:"displayName"`
	Bio            string    `gorm:"size:500" json:"bio"`
	AvatarURL      string    `gorm:"size:1024" json:"avatarUrl"`
	Email          string    `gorm:"size:255" json:"email"`
	Kind           UserKind  `gorm:"size:20;not null;default:'member'" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u *User) IsPlaceholder() bool {
	return u.Kind == UserKindPlaceholder
}

// Author is the public slice of a user embedded in comments and pins.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

func (u *User) Author() Author {
	return Author{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}
