package httpx

import (
	"errors"
	"net/http"

	"github.com/quillworks/quill/pkg/jwtx"
	"github.com/quillworks/quill/pkg/slogx"
)

// AuthnCookie gates protected routes on the access-token cookie.
//
// The check is stateless: signature and expiry are verified against the
// shared secret with no store lookup, so a rotated or logged-out token stays
// usable until its own expiry. Failure classification matters here; only the
// expired case advertises itself as retryable via WWW-Authenticate.
func AuthnCookie(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(AccessTokenCookie)
			if err != nil || cookie.Value == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
				return
			}

			claims, err := v.Verify(cookie.Value)
			if err != nil {
				if errors.Is(err, jwtx.ErrExpired) {
					w.Header().Set("WWW-Authenticate", BearerTokenExpired)
					writeAuthError(w, http.StatusUnauthorized, "token_expired", "expired access token")
					return
				}
				log.Warn("jwt verify failed", "err", err)
				writeAuthError(w, http.StatusUnauthorized, "invalid_token", "invalid access token")
				return
			}

			// A verified token without a subject is tampering, not expiry.
			if claims.Subject == "" {
				writeAuthError(w, http.StatusForbidden, "invalid_token", "access token has no subject")
				return
			}

			ctx = ContextWithIdentity(ctx, Identity{
				UserID: claims.Subject,
				Roles:  claims.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, code int, errCode, desc string) {
	NoCache(w)
	WriteJSON(w, code, map[string]string{
		"error":   errCode,
		"message": desc,
	})
}
