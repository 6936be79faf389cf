package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quillworks/quill/internal/auth/service"
	"github.com/quillworks/quill/internal/auth/store"
	"github.com/quillworks/quill/internal/auth/store/drivers/sqlite"
	"github.com/quillworks/quill/pkg/authsdk"
	"github.com/quillworks/quill/pkg/httpx"
	"github.com/quillworks/quill/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

const (
	testEmail    = "jane@example.com"
	testPassword = "Str0ngPass!word"
)

// generousLimit keeps multi-request tests clear of the rate limiter.
var generousLimit = httpx.RateLimitConfig{
	RequestsPerWindow: 1000,
	Window:            time.Minute,
	Burst:             1000,
}

func newTestRouter(t *testing.T) (*Router, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSecret, "quill-auth")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(
		verifier,
		httpx.CookieConfig{Secure: false, RefreshTTL: 30 * 24 * time.Hour},
		"http://localhost:5173",
		"test",
		st,
		logger,
	)
	r.StrictLimit = generousLimit
	r.ModerateLimit = generousLimit
	r.LenientLimit = generousLimit

	r.TokenService = &service.TokenService{
		Signer:     signer,
		Store:      st,
		Issuer:     "quill-auth",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}
	r.UserService = &service.UserService{Store: st, BcryptCost: 4}
	r.ApplyRoutes()

	return r, st
}

func doJSON(r http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func registerBody() authsdk.RegisterRequest {
	return authsdk.RegisterRequest{
		Email:           testEmail,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       "Jane",
		LastName:        "Doe",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("success sets both cookies", func(t *testing.T) {
		r, st := newTestRouter(t)

		rec := doJSON(r, http.MethodPost, "/v1/auth/register", registerBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		access := cookieByName(t, rec, httpx.AccessTokenCookie)
		refresh := cookieByName(t, rec, httpx.RefreshTokenCookie)
		require.True(t, access.HttpOnly)
		require.True(t, refresh.HttpOnly)
		require.Positive(t, refresh.MaxAge)
		require.Zero(t, access.MaxAge) // session cookie

		u, err := st.Users().GetUserByEmail(context.Background(), testEmail)
		require.NoError(t, err)
		require.Equal(t, []string{"user"}, u.Roles)
	})

	t.Run("weak password rejected before the store", func(t *testing.T) {
		r, st := newTestRouter(t)

		body := registerBody()
		body.Password = "short"
		body.ConfirmPassword = "short"

		rec := doJSON(r, http.MethodPost, "/v1/auth/register", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var e authsdk.Error
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
		require.Equal(t, authsdk.ErrorCodeValidationFailed, e.Code)
		require.Contains(t, e.Fields, "password")

		_, err := st.Users().GetUserByEmail(context.Background(), testEmail)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("mismatched confirmation rejected before the store", func(t *testing.T) {
		r, st := newTestRouter(t)

		body := registerBody()
		body.ConfirmPassword = testPassword + "x"

		rec := doJSON(r, http.MethodPost, "/v1/auth/register", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		_, err := st.Users().GetUserByEmail(context.Background(), testEmail)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doJSON(r, http.MethodPost, "/v1/auth/register", registerBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(r, http.MethodPost, "/v1/auth/register", registerBody())
		require.Equal(t, http.StatusConflict, rec.Code)

		var e authsdk.Error
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
		require.Equal(t, authsdk.ErrorCodeEmailExists, e.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("wrong credentials", func(t *testing.T) {
		r, _ := newTestRouter(t)
		doJSON(r, http.MethodPost, "/v1/auth/register", registerBody())

		rec := doJSON(r, http.MethodPost, "/v1/auth/login", authsdk.LoginRequest{
			Email:    testEmail,
			Password: "wrong-password",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var e authsdk.Error
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
		require.Equal(t, authsdk.ErrorCodeInvalidCredentials, e.Code)
	})

	t.Run("success sets cookies", func(t *testing.T) {
		r, _ := newTestRouter(t)
		doJSON(r, http.MethodPost, "/v1/auth/register", registerBody())

		rec := doJSON(r, http.MethodPost, "/v1/auth/login", authsdk.LoginRequest{
			Email:    testEmail,
			Password: testPassword,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		cookieByName(t, rec, httpx.AccessTokenCookie)
		cookieByName(t, rec, httpx.RefreshTokenCookie)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Run("missing cookie", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doJSON(r, http.MethodPost, "/v1/auth/refresh", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var e authsdk.Error
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
		require.Equal(t, authsdk.ErrorCodeRefreshRequired, e.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doJSON(r, http.MethodPost, "/v1/auth/refresh", nil, &http.Cookie{
			Name:  httpx.RefreshTokenCookie,
			Value: "never-issued",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)

		var e authsdk.Error
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
		require.Equal(t, authsdk.ErrorCodeRefreshInvalid, e.Code)
	})

	t.Run("rotation is single use", func(t *testing.T) {
		r, _ := newTestRouter(t)

		reg := doJSON(r, http.MethodPost, "/v1/auth/register", registerBody())
		oldRefresh := cookieByName(t, reg, httpx.RefreshTokenCookie)

		rec := doJSON(r, http.MethodPost, "/v1/auth/refresh", nil, oldRefresh)
		require.Equal(t, http.StatusOK, rec.Code)
		newRefresh := cookieByName(t, rec, httpx.RefreshTokenCookie)
		require.NotEqual(t, oldRefresh.Value, newRefresh.Value)

		// Replaying the rotated token is a 403, not a 401.
		rec = doJSON(r, http.MethodPost, "/v1/auth/refresh", nil, oldRefresh)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = doJSON(r, http.MethodPost, "/v1/auth/refresh", nil, newRefresh)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doJSON(r, http.MethodGet, "/v1/auth/me", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired access token advertises refresh", func(t *testing.T) {
		r, _ := newTestRouter(t)
		doJSON(r, http.MethodPost, "/v1/auth/register", registerBody())

		signer, err := jwtx.NewSignerHS256(testSecret)
		require.NoError(t, err)
		expired, err := signer.Sign(jwtx.NewAccessClaims(
			"some-user", []string{"user"}, -time.Minute, "quill-auth", time.Now().UTC(),
		))
		require.NoError(t, err)

		rec := doJSON(r, http.MethodGet, "/v1/auth/me", nil, &http.Cookie{
			Name:  httpx.AccessTokenCookie,
			Value: expired,
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.BearerTokenExpired, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("returns profile without password hash", func(t *testing.T) {
		r, _ := newTestRouter(t)

		reg := doJSON(r, http.MethodPost, "/v1/auth/register", registerBody())
		access := cookieByName(t, reg, httpx.AccessTokenCookie)

		rec := doJSON(r, http.MethodGet, "/v1/auth/me", nil, access)
		require.Equal(t, http.StatusOK, rec.Code)

		var me authsdk.MeResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
		require.Equal(t, testEmail, me.User.Email)
		require.Equal(t, []string{"user"}, me.User.Roles)
		require.NotContains(t, rec.Body.String(), "password")
	})
}

func TestLogoutEndpoint(t *testing.T) {
	r, st := newTestRouter(t)

	reg := doJSON(r, http.MethodPost, "/v1/auth/register", registerBody())
	refresh := cookieByName(t, reg, httpx.RefreshTokenCookie)

	rec := doJSON(r, http.MethodDelete, "/v1/auth/logout", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)

	// Both cookies expired.
	require.Negative(t, cookieByName(t, rec, httpx.AccessTokenCookie).MaxAge)
	require.Negative(t, cookieByName(t, rec, httpx.RefreshTokenCookie).MaxAge)

	// The stored token is gone, so the refresh endpoint rejects it.
	u, err := st.Users().GetUserByEmail(context.Background(), testEmail)
	require.NoError(t, err)
	count, err := st.RefreshTokens().CountUserRefreshTokens(context.Background(), u.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	// Logout without any cookie still succeeds.
	rec = doJSON(r, http.MethodDelete, "/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
