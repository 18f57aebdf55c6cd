package model

import "time"

// RefreshToken is the persisted record behind a signed refresh token,
// keyed by the jti claim embedded in the token. IsRevoked only ever moves
// from false to true, and ReplacedBy never changes once set.
type RefreshToken struct {
	JTI        string
	UserID     int64
	ExpiresAt  time.Time
	IsRevoked  bool
	ReplacedBy *string
	CreatedAt  time.Time
}

// Usable reports whether the record can still mint new tokens at the
// given instant: not revoked and not past its expiry.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}

// AuthResult is what every credential-issuing operation hands back to the
// HTTP boundary: the sanitized user, the new token pair and the cookie
// lifetimes derived from the same expiry values as the tokens themselves.
type AuthResult struct {
	User                  PublicUser
	AccessToken           string
	RefreshToken          string
	AccessCookieMaxAgeMS  int64
	RefreshCookieMaxAgeMS int64
}
