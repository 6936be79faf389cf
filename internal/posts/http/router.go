package http

import (
	"log/slog"
	"net/http"
	"time"

	authdomain "github.com/quillworks/quill/internal/auth/domain"
	"github.com/quillworks/quill/internal/posts/service"
	"github.com/quillworks/quill/internal/posts/store"
	"github.com/quillworks/quill/pkg/httpx"
	"github.com/quillworks/quill/pkg/jwtx"
	"github.com/quillworks/quill/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	PostsService *service.PostsService

	// Rate limit profiles per endpoint class. Tests swap in generous
	// configs so multi-request scenarios don't trip the limiter.
	ModerateLimit httpx.RateLimitConfig
	LenientLimit  httpx.RateLimitConfig
}

func NewRouter(
	verifier jwtx.Verifier,
	clientOrigin, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,

		ModerateLimit: httpx.ModerateLimit,
		LenientLimit:  httpx.LenientLimit,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(clientOrigin),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPosts()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPosts() {
	guard := &Guard{PostsService: r.PostsService}

	// Reads are public.
	r.Mux.Handle("GET /v1/posts",
		httpx.Chain(&ListPostsHandler{PostsService: r.PostsService},
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/posts/{id}",
		httpx.Chain(&GetPostHandler{PostsService: r.PostsService},
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)

	// Mutations require a session plus the guard's role/ownership checks.
	r.Mux.Handle("POST /v1/posts",
		httpx.Chain(&CreatePostHandler{PostsService: r.PostsService},
			httpx.AuthnCookie(r.verifier),
			guard.Require(authdomain.RoleUser),
			httpx.RateLimitByUser(r.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/posts/{id}",
		httpx.Chain(&UpdatePostHandler{PostsService: r.PostsService},
			httpx.AuthnCookie(r.verifier),
			guard.Require(RequireSelf),
			httpx.RateLimitByUser(r.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/posts/{id}",
		httpx.Chain(&DeletePostHandler{PostsService: r.PostsService},
			httpx.AuthnCookie(r.verifier),
			guard.Require(RequireSelf),
			httpx.RateLimitByUser(r.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
}
