package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryFromToken reads the exp and iat claims of a JWT without verifying its signature;
// the console never holds the API's signing key. The lifetime is exp - iat, or exp - now
// when iat is absent. ok is false for non-JWT tokens or already-expired ones.
func ExpiryFromToken(raw string, now time.Time) (time.Duration, bool) {
	if raw == "" {
		return 0, false
	}
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return 0, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	start := now
	if iat, err := token.Claims.GetIssuedAt(); err == nil && iat != nil {
		start = iat.Time
	}
	d := exp.Time.Sub(start)
	if d <= 0 {
		return 0, false
	}
	return d, true
}
