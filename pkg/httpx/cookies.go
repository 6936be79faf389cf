package httpx

import (
	"net/http"
	"time"
)

// Cookie names shared by both services and the SDK.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieConfig controls how auth cookies are written.
type CookieConfig struct {
	// Secure toggles Secure + SameSite=None, required for cross-site use in
	// production. When false cookies use SameSite=Lax for local development.
	Secure bool

	// RefreshTTL is the Max-Age of the refresh cookie. The access cookie is
	// a session cookie; its lifetime is governed by the signed exp claim.
	RefreshTTL time.Duration
}

func (c CookieConfig) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetAuthCookies writes the refresh and access token cookies. Callers must
// not reach here if token issuance failed; a half-written pair would strand
// the client.
func SetAuthCookies(w http.ResponseWriter, refreshToken, accessToken string, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(cfg.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.sameSite(),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.sameSite(),
	})
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(w http.ResponseWriter, cfg CookieConfig) {
	for _, name := range []string{RefreshTokenCookie, AccessTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: cfg.sameSite(),
		})
	}
}
