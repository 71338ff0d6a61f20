package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrPasswordMismatch  = errors.New("password does not match")

	ErrNoToken      = errors.New("no bearer token provided")
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrTokenInvalid = errors.New("token is invalid or expired")

	ErrMemoryFileMissing = errors.New("memory file is missing")
	ErrObjectNotFound    = errors.New("stored object not found")
)
