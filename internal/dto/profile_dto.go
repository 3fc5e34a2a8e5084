package dto

import "github.com/google/uuid"

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"max=100"`
	Username    string `json:"username" validate:"required,max=64"`
	Bio         string `json:"bio" validate:"max=500"`
}

type MarkReadRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=100"`
}
