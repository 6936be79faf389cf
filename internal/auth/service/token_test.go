package service

import (
	"context"
	"testing"
	"time"

	"github.com/quillworks/quill/internal/auth/domain"
	"github.com/quillworks/quill/internal/auth/store"
	"github.com/quillworks/quill/internal/auth/store/drivers/sqlite"
	"github.com/quillworks/quill/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	return &TokenService{
		Signer:     signer,
		Store:      st,
		Issuer:     "quill-auth",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}
}

func registerTestUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()

	users := &UserService{Store: st, BcryptCost: 4}
	u, err := users.Register(context.Background(), email, "Str0ngPass!word", "Test", "User")
	require.NoError(t, err)
	return u
}

func TestIssuePair(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	u := registerTestUser(t, st, "issue@example.com")

	pair, err := svc.IssuePair(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// Exactly one persisted refresh record.
	count, err := st.RefreshTokens().CountUserRefreshTokens(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Access token carries the user's identity.
	verifier := jwtx.NewVerifierHS256(testSecret, "quill-auth")
	claims, err := verifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, u.Roles, claims.Roles)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong email", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)

		_, _, err := svc.Login(ctx, "nobody@example.com", "Str0ngPass!word")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		registerTestUser(t, st, "login@example.com")

		_, _, err := svc.Login(ctx, "login@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("invalidates all prior sessions", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		u := registerTestUser(t, st, "sessions@example.com")

		// N prior sessions.
		for range 3 {
			_, err := svc.IssuePair(ctx, u)
			require.NoError(t, err)
		}
		count, err := st.RefreshTokens().CountUserRefreshTokens(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 3, count)

		got, pair, err := svc.Login(ctx, "sessions@example.com", "Str0ngPass!word")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.NotEmpty(t, pair.RefreshToken)

		// After login, exactly one remains.
		count, err = st.RefreshTokens().CountUserRefreshTokens(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	u := registerTestUser(t, st, "refresh@example.com")

	pair, err := svc.IssuePair(ctx, u)
	require.NoError(t, err)

	got, newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// Still exactly one record: rotation swapped, not accumulated.
	count, err := st.RefreshTokens().CountUserRefreshTokens(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// The old token is single-use; replaying it fails.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// The replacement still works.
	_, _, err = svc.Refresh(ctx, newPair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)

	_, _, err := svc.Refresh(ctx, "never-issued")
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	u := registerTestUser(t, st, "logout@example.com")

	pair, err := svc.IssuePair(ctx, u)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	count, err := st.RefreshTokens().CountUserRefreshTokens(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	// Logging out twice is not an error.
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
}
