package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/quillworks/quill/internal/auth/domain"
	"github.com/quillworks/quill/internal/auth/store"
	"github.com/quillworks/quill/pkg/cryptox"
	"github.com/quillworks/quill/pkg/idx"
	"github.com/quillworks/quill/pkg/jwtx"
	"github.com/quillworks/quill/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrUserNotFound       = errors.New("user_not_found")
)

type TokenService struct {
	Signer     jwtx.Signer
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login verifies the user's credentials and issues a fresh token pair.
//
// All existing refresh tokens for the user are removed first, so a login
// from one browser ends every other live session. The invalidate and the
// issue happen in one transaction.
func (s *TokenService) Login(
	ctx context.Context,
	email, password string,
) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("user_id", u.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().DeleteAllUserRefreshTokens(ctx, u.ID); err != nil {
			return err
		}

		pair, err = s.issuePair(ctx, tx.RefreshTokens(), u)
		return err
	})
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	return u, pair, nil
}

// Refresh rotates the presented refresh token and returns a new pair.
//
// The old token is deleted BEFORE anything new is issued. The delete is
// keyed on the opaque token and reports how many rows it removed, so when
// two requests race on the same token exactly one proceeds and the other
// gets ErrInvalidRefresh. Deliberately no transaction: if issuance fails
// after the delete, the token is gone and the user must log in again.
// Failing closed beats leaving a replayable token behind.
func (s *TokenService) Refresh(
	ctx context.Context,
	refreshOpaque string,
) (domain.User, domain.TokenPair, error) {
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByToken(ctx, refreshOpaque)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := s.Store.RefreshTokens().DeleteRefreshToken(ctx, refreshOpaque); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrUserNotFound
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, s.Store.RefreshTokens(), u)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	return u, pair, nil
}

// Logout removes the presented refresh token. An unknown or already
// removed token is not an error: the caller clears cookies either way.
func (s *TokenService) Logout(ctx context.Context, refreshOpaque string) error {
	err := s.Store.RefreshTokens().DeleteRefreshToken(ctx, refreshOpaque)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// IssuePair signs an access token and stores a new refresh token for the
// user. Registration uses this to log the new account straight in.
func (s *TokenService) IssuePair(ctx context.Context, u domain.User) (domain.TokenPair, error) {
	return s.issuePair(ctx, s.Store.RefreshTokens(), u)
}

func (s *TokenService) issuePair(
	ctx context.Context,
	tokens store.RefreshTokens,
	u domain.User,
) (domain.TokenPair, error) {
	now := time.Now().UTC()

	claims := jwtx.NewAccessClaims(u.ID, u.Roles, s.AccessTTL, s.Issuer, now)
	accessToken, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		Token:     refreshOpaque,
		UserID:    u.ID,
		CreatedAt: now,
	}

	if err := tokens.CreateRefreshToken(ctx, rt); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
	}, nil
}
