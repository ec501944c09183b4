package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read from a credential without verifying it.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect decodes a JWT credential without checking its signature. The
// result is for display and logging only; opaque tokens yield a zero value.
// Expiry is never enforced on the client.
func Inspect(token string) TokenInfo {
	if token == "" {
		return TokenInfo{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}
	}
	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info
}
