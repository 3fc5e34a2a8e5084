package services

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPinNotFound        = errors.New("pin not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidUsername    = errors.New("username must be 1-64 characters")
	ErrInvalidComment     = errors.New("comment must be 1-500 characters")
	ErrInvalidPin         = errors.New("pin needs a title (max 200 characters) and a media URL")
	ErrInvalidMediaType   = errors.New("media type must be image or video")
	ErrInvalidTab         = errors.New("tab must be created, saved or liked")
	ErrUnsupportedMedia   = errors.New("only image and video uploads are supported")
	ErrFileTooLarge       = errors.New("file exceeds the upload size limit")
	ErrStorage            = errors.New("object storage upload failed")
	ErrUnsupportedDialect = errors.New("operation requires PostgreSQL")
)
