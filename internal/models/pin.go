package models

import "time"

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

func (m MediaType) Valid() bool {
	return m == MediaImage || m == MediaVideo
}

type Pin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	MediaURL    string    `gorm:"size:1024;not null" json:"mediaUrl"`
	MediaType   MediaType `gorm:"size:10;not null;default:'image';index" json:"mediaType"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	UserID      string    `gorm:"size:64;not null;index" json:"userId"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
