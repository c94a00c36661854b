package auth

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// The courier API issues HS256 JWTs but the signing secret never leaves it,
// so tokens are treated as opaque credentials here. The one thing worth
// reading out of them is the expiry claim: a session whose token has already
// expired can be destroyed locally instead of bouncing every request off the
// API first.

// Expired reports whether token carries an exp claim that has passed.
// Tokens that cannot be parsed as JWTs are assumed live; the API stays the
// authority on their validity.
func Expired(token string) bool {
	expiry, ok := expiresAt(token)
	if !ok {
		return false
	}
	return time.Now().After(expiry)
}

func expiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true
	case json.Number:
		if n, err := exp.Int64(); err == nil {
			return time.Unix(n, 0), true
		}
	}
	return time.Time{}, false
}
