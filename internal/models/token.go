package models

import (
	"time"

	"github.com/google/uuid"
)

// Decoded session token payload
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Session is a bearer token that passed the session guard together with its claims
type Session struct {
	Token  string
	Claims Claims
}

// Blacklist entry. Presence of the token here means it must be rejected
type RevokedToken struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}
