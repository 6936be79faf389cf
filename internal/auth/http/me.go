package http

import (
	"errors"
	"net/http"

	"github.com/quillworks/quill/internal/auth/domain"
	"github.com/quillworks/quill/internal/auth/service"
	"github.com/quillworks/quill/internal/auth/store"
	"github.com/quillworks/quill/pkg/authsdk"
	"github.com/quillworks/quill/pkg/httpx"
	"github.com/quillworks/quill/pkg/slogx"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles GET /v1/auth/me. Runs behind the cookie authn
// middleware, so an identity is already on the context.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok || id.UserID == "" {
		authsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	u, err := h.UserService.GetUserByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Valid token for a deleted account.
			authsdk.ErrNotFound.WriteError(w)
			return
		}
		l.Error("failed to load user", "user_id", id.UserID, "err", err)
		authsdk.ErrServer.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MeResponse{
		Message: "authenticated",
		User:    toProfile(u),
	})
}

func toProfile(u domain.User) authsdk.UserProfile {
	return authsdk.UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt,
	}
}
