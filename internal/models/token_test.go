package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRefreshToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		token       RefreshToken
		wantExpired bool
		wantUsed    bool
	}{
		{"fresh", RefreshToken{ExpiresAt: now.Add(time.Hour)}, false, false},
		{"expires right now", RefreshToken{ExpiresAt: now}, true, false},
		{"expired and used", RefreshToken{ExpiresAt: now.Add(-time.Hour), UsedAt: &now}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantExpired, tt.token.Expired(now))
			require.Equal(t, tt.wantUsed, tt.token.Used())
		})
	}
}

func TestIssuedToken_MaxAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, 900, IssuedToken{ExpiresAt: now.Add(15 * time.Minute)}.MaxAge(now))
	require.Equal(t, 1, IssuedToken{ExpiresAt: now.Add(1500 * time.Millisecond)}.MaxAge(now), "partial second is truncated")
	require.Equal(t, -1, IssuedToken{ExpiresAt: now}.MaxAge(now), "expired token drops the cookie")
}
