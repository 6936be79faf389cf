package http

import (
	"errors"
	"net/http"

	"github.com/quillworks/quill/internal/auth/service"
	"github.com/quillworks/quill/pkg/authsdk"
	"github.com/quillworks/quill/pkg/httpx"
	"github.com/quillworks/quill/pkg/slogx"
)

type RefreshHandler struct {
	TokenService *service.TokenService
	Cookies      httpx.CookieConfig
}

// ServeHTTP handles POST /v1/auth/refresh.
//
// A missing cookie is 401 (the client never had a session here); an unknown
// token is 403 (the token was rotated, revoked, or fabricated). A replayed
// stale token therefore gets 403 and the client must log in again.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	cookie, err := r.Cookie(httpx.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		authsdk.ErrRefreshRequired.WriteError(w)
		return
	}

	_, pair, err := h.TokenService.Refresh(ctx, cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			authsdk.ErrRefreshInvalid.WriteError(w)
		case errors.Is(err, service.ErrUserNotFound):
			authsdk.ErrUserNotFound.WriteError(w)
		default:
			l.Error("refresh failed", "err", err)
			authsdk.ErrServer.WriteError(w)
		}
		return
	}

	httpx.SetAuthCookies(w, pair.RefreshToken, pair.AccessToken, h.Cookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message: "token refreshed",
	})
}
