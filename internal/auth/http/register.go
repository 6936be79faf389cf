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

type RegisterHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
	Cookies      httpx.CookieConfig
}

// ServeHTTP handles POST /v1/auth/register.
//
// Validation runs before anything touches the store: a weak password or a
// mismatched confirmation rejects the request with no user created. A taken
// email maps to 409. On success the new account is logged straight in, so
// the response carries both auth cookies.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
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

	u, err := h.UserService.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			authsdk.ErrEmailExists.WriteError(w)
			return
		}
		l.Error("registration failed", "err", err)
		authsdk.ErrServer.WriteError(w)
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, u)
	if err != nil {
		// The account exists but the session doesn't. No cookies are
		// written; the user can log in normally.
		l.Error("token issuance after registration failed", "user_id", u.ID, "err", err)
		authsdk.ErrServer.WriteError(w)
		return
	}

	httpx.SetAuthCookies(w, pair.RefreshToken, pair.AccessToken, h.Cookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.MessageResponse{
		Message: "registration successful",
	})
}
