package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
)

type CreatePinRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	MediaURL    string `json:"mediaUrl" validate:"required,url"`
	MediaType   string `json:"mediaType" validate:"omitempty,oneof=image video"`
	Width       int    `json:"width" validate:"min=0"`
	Height      int    `json:"height" validate:"min=0"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type CommentResponse struct {
	ID        uint          `json:"id"`
	PinID     uint          `json:"pinId"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	User      models.Author `json:"user"`
}

func NewCommentResponse(c models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		PinID:     c.PinID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if c.User != nil {
		resp.User = c.User.Author()
	} else {
		resp.User = models.Author{ID: c.UserID}
	}
	return resp
}

func NewCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = NewCommentResponse(c)
	}
	return out
}

type PinListResponse struct {
	Pins []models.Pin `json:"pins"`
	Page
}
