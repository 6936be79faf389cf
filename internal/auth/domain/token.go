package domain

import "time"

// TokenPair is what issuance returns: the signed short-lived access token
// and the opaque refresh token. Both travel to the browser as cookies only.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RefreshToken models the stored refresh token record. The raw opaque token
// is the lookup key; there is no stored expiry — the cookie's Max-Age bounds
// the session and stale records persist until rotated or logged out.
type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	CreatedAt time.Time
}
