package http

import (
	"net/http"

	"github.com/quillworks/quill/internal/auth/service"
	"github.com/quillworks/quill/pkg/authsdk"
	"github.com/quillworks/quill/pkg/httpx"
	"github.com/quillworks/quill/pkg/slogx"
)

type LogoutHandler struct {
	TokenService *service.TokenService
	Cookies      httpx.CookieConfig
}

// ServeHTTP handles DELETE /v1/auth/logout.
//
// Logout always succeeds from the client's point of view: both cookies are
// cleared whether or not a refresh token was presented or still existed.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	if cookie, err := r.Cookie(httpx.RefreshTokenCookie); err == nil && cookie.Value != "" {
		if err := h.TokenService.Logout(ctx, cookie.Value); err != nil {
			// The cookies are cleared regardless; the orphaned record is
			// removed on the user's next login.
			l.Warn("failed to delete refresh token on logout", "err", err)
		}
	}

	httpx.ClearAuthCookies(w, h.Cookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message: "logout successful",
	})
}
