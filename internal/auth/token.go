// internal/auth/token.go
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry decodes a JWT without verifying its signature and returns the
// expiry claim. Verification belongs to the backend; this is only a
// pre-flight check so the connector can warn before dialing with a token the
// server will reject anyway.
func TokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether the token carries an exp claim in the past.
// Tokens without an exp claim (or that are not JWTs) are never reported as
// expired.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return exp.Before(now)
}
