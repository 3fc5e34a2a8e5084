package models

import "time"

type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_likes_user_pin" json:"userId"`
	PinID     uint      `gorm:"not null;uniqueIndex:idx_likes_user_pin;index" json:"pinId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Save struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_saves_user_pin" json:"userId"`
	PinID     uint      `gorm:"not null;uniqueIndex:idx_saves_user_pin;index" json:"pinId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PinID     uint      `gorm:"not null;index" json:"pinId"`
	UserID    string    `gorm:"size:64;not null;index" json:"userId"`
	Content   string    `gorm:"size:500;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
}

// Follow is a directed edge; FollowerID follows FollowingID.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  string    `gorm:"size:64;not null;uniqueIndex:idx_follows_edge" json:"followerId"`
	FollowingID string    `gorm:"size:64;not null;uniqueIndex:idx_follows_edge;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}
