package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillworks/quill/internal/auth/service"
	"github.com/quillworks/quill/pkg/authsdk"
	"github.com/quillworks/quill/pkg/httpx"
	"github.com/quillworks/quill/pkg/slogx"
)

type LoginHandler struct {
	TokenService *service.TokenService
	Cookies      httpx.CookieConfig
}

// ServeHTTP handles POST /v1/auth/login.
//
// An unknown email and a wrong password are indistinguishable to the
// caller: both come back as 401 invalid_credentials.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.NewValidationError(map[string]string{
			"body": "must be valid JSON",
		}).WriteError(w)
		return
	}
	if errs := req.Validate(); errs != nil {
		authsdk.NewValidationError(errs).WriteError(w)
		return
	}

	_, pair, err := h.TokenService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		l.Error("login failed", "err", err)
		authsdk.ErrServer.WriteError(w)
		return
	}

	httpx.SetAuthCookies(w, pair.RefreshToken, pair.AccessToken, h.Cookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message: "login successful",
	})
}
