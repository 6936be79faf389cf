package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/quillworks/quill/internal/auth/domain"
	"github.com/quillworks/quill/internal/auth/store"
	"github.com/quillworks/quill/pkg/cryptox"
	"github.com/quillworks/quill/pkg/idx"
)

var ErrEmailTaken = errors.New("email_taken")

type UserService struct {
	Store      store.Store
	BcryptCost int
}

// Register creates a new user with the default role set. The email's
// uniqueness is enforced by the database; a duplicate surfaces as
// ErrEmailTaken regardless of which of two racing registrations got
// there first.
func (s *UserService) Register(
	ctx context.Context,
	email, password, firstName, lastName string,
) (domain.User, error) {
	hash, err := cryptox.HashPassword(password, s.BcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Roles:        domain.DefaultRoles(),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return u, nil
}

// GetUserByID loads a user's profile.
func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}
