package models

import (
	"time"

	"github.com/google/uuid"
)

// Opaque single use refresh token as stored in the database
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time // nil until the token is exchanged or revoked
}

func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t RefreshToken) Used() bool {
	return t.UsedAt != nil
}

// Token value handed to the client: a signed access JWT or an opaque refresh token
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Cookie Max-Age for the token: seconds left, or -1 once expired so the cookie is dropped
func (t IssuedToken) MaxAge(now time.Time) int {
	left := int(t.ExpiresAt.Sub(now) / time.Second)
	if left <= 0 {
		return -1
	}
	return left
}

// Session tokens issued on register, login and refresh
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
