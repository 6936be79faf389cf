package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quillworks/quill/pkg/httpx"
	"github.com/quillworks/quill/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func protectedHandler(t *testing.T) (http.Handler, *httpx.Identity) {
	t.Helper()

	var captured httpx.Identity
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httpx.IdentityFromContext(r.Context())
		require.True(t, ok)
		captured = id
		w.WriteHeader(http.StatusOK)
	})

	verifier := jwtx.NewVerifierHS256(testSecret, "quill-auth")
	return httpx.Chain(h, httpx.AuthnCookie(verifier)), &captured
}

func signToken(t *testing.T, claims jwtx.Claims) string {
	t.Helper()
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func doWithCookie(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: httpx.AccessTokenCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthnCookie(t *testing.T) {
	now := time.Now().UTC()

	t.Run("missing cookie", func(t *testing.T) {
		h, _ := protectedHandler(t)
		rec := doWithCookie(h, "")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "unauthenticated", decodeErrCode(t, rec))
		require.Empty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("expired token advertises refresh", func(t *testing.T) {
		h, _ := protectedHandler(t)
		token := signToken(t, jwtx.NewAccessClaims("user-1", []string{"user"}, -time.Minute, "quill-auth", now))
		rec := doWithCookie(h, token)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "token_expired", decodeErrCode(t, rec))
		require.Equal(t, httpx.BearerTokenExpired, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("garbage token", func(t *testing.T) {
		h, _ := protectedHandler(t)
		rec := doWithCookie(h, "not-a-jwt")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid_token", decodeErrCode(t, rec))
		require.Empty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("valid token without subject", func(t *testing.T) {
		h, _ := protectedHandler(t)
		token := signToken(t, jwtx.NewAccessClaims("", []string{"user"}, time.Minute, "quill-auth", now))
		rec := doWithCookie(h, token)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "invalid_token", decodeErrCode(t, rec))
	})

	t.Run("valid token injects identity", func(t *testing.T) {
		h, captured := protectedHandler(t)
		token := signToken(t, jwtx.NewAccessClaims("user-1", []string{"user", "admin"}, time.Minute, "quill-auth", now))
		rec := doWithCookie(h, token)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", captured.UserID)
		require.Equal(t, []string{"user", "admin"}, captured.Roles)
	})
}

func decodeErrCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mk("outer"), mk("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}
