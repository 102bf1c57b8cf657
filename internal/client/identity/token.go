package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims reads the registered claims of a session token without
// checking its signature. The client never trusts these for access
// decisions; they only fill in display fields.
func tokenClaims(token string) (*jwt.RegisteredClaims, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// TokenIssuedAt returns the token's iat claim, if it is a JWT carrying one.
func TokenIssuedAt(token string) (time.Time, bool) {
	claims, ok := tokenClaims(token)
	if !ok || claims.IssuedAt == nil {
		return time.Time{}, false
	}
	return claims.IssuedAt.UTC(), true
}

// TokenExpiry returns the token's exp claim, if it is a JWT carrying one.
func TokenExpiry(token string) (time.Time, bool) {
	claims, ok := tokenClaims(token)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.UTC(), true
}
