package http

import (
	"errors"
	"net/http"

	"github.com/quillworks/quill/internal/auth/domain"
	"github.com/quillworks/quill/internal/posts/service"
	"github.com/quillworks/quill/pkg/authsdk"
	"github.com/quillworks/quill/pkg/httpx"
	"github.com/quillworks/quill/pkg/slogx"
)

// RequireSelf is the ownership pseudo-role: the authenticated caller must
// be the author of the post named by the {id} path segment.
const RequireSelf = "self"

// Guard is the authorization gate for post mutations. It runs after the
// cookie authn middleware, so an identity is expected on the context.
type Guard struct {
	PostsService *service.PostsService
}

// Require builds a middleware enforcing the given requirements.
//
// Evaluation order:
//  1. no identity on the context -> 401;
//  2. when the route carries an {id}, the post is loaded (absent -> 404)
//     and attached to the context for the handler;
//  3. the admin role bypasses every remaining check;
//  4. "self" passes when the caller authored the loaded post;
//  5. otherwise the caller's roles must intersect the required ones.
func (g *Guard) Require(requirements ...string) httpx.Middleware {
	var roles []string
	requireSelf := false
	for _, req := range requirements {
		if req == RequireSelf {
			requireSelf = true
			continue
		}
		roles = append(roles, req)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := slogx.FromContext(ctx)

			id, ok := httpx.IdentityFromContext(ctx)
			if !ok || id.UserID == "" {
				authsdk.ErrUnauthenticated.WriteError(w)
				return
			}

			// Resource existence is checked before ownership: a missing
			// post is 404 for everyone, including non-owners.
			var isOwner bool
			if postID := r.PathValue("id"); postID != "" {
				post, err := g.PostsService.Get(ctx, postID)
				if err != nil {
					if errors.Is(err, service.ErrPostNotFound) {
						authsdk.ErrNotFound.WriteError(w)
						return
					}
					l.Error("guard failed to load post", "post_id", postID, "err", err)
					authsdk.ErrServer.WriteError(w)
					return
				}
				ctx = contextWithPost(ctx, post)
				r = r.WithContext(ctx)
				isOwner = post.AuthorID == id.UserID
			}

			switch {
			case id.HasRole(domain.RoleAdmin):
			case requireSelf && isOwner:
			case len(roles) > 0 && id.HasAnyRole(roles...):
			default:
				authsdk.ErrForbidden.WriteError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
