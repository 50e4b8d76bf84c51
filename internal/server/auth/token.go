// Package auth inspects the upstream access token for diagnostics only. The
// token is never verified here; the upstream API does that. The standard
// claims feed the sync logs, and a token that is already expired on arrival
// is reported as a warning.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what we can learn from an opaque bearer token.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect decodes token without checking its signature. ok is false when the
// token is not a JWT.
func Inspect(token string) (info TokenInfo, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, false
	}
	info.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}

// TTL is the time left before the token expires, or 0 when unknown or past.
func (i TokenInfo) TTL(now time.Time) time.Duration {
	if i.ExpiresAt.IsZero() || !i.ExpiresAt.After(now) {
		return 0
	}
	return i.ExpiresAt.Sub(now)
}

// Expired reports whether the token carries an expiry at or before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !i.ExpiresAt.After(now)
}
