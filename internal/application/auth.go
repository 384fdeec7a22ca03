package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/auth"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/logging"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/validation"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

var errBadCredentials = domain.Errorf(domain.ErrUnauthorized, "Incorrect email or password")

func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateStruct(in); err != nil {
		return domain.User{}, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	var out domain.User
	err = s.inTx(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetUserByEmail(ctx, in.Email); err == nil {
			return domain.Errorf(domain.ErrValidation, "Email already registered")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		created, err := repo.CreateUser(ctx, domain.User{
			Email:        in.Email,
			PasswordHash: hash,
			FullName:     strings.TrimSpace(in.FullName),
		})
		if errors.Is(err, domain.ErrConflict) {
			return domain.Errorf(domain.ErrValidation, "Email already registered")
		}
		out = created
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	logging.Ctx(ctx).Info().Uint("user_id", out.ID).Msg("user registered")
	return out, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Token, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateStruct(in); err != nil {
		return Token{}, err
	}

	var u domain.User
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		u, err = repo.GetUserByEmail(ctx, in.Email)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return Token{}, errBadCredentials
	}
	if err != nil {
		return Token{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		logging.Ctx(ctx).Info().Uint("user_id", u.ID).Msg("login rejected")
		return Token{}, errBadCredentials
	}

	signed, err := s.tokens.Issue(u.Email)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.User, error) {
	invalid := domain.Errorf(domain.ErrUnauthorized, "Could not validate credentials")
	if strings.TrimSpace(token) == "" {
		return domain.User{}, invalid
	}
	email, err := s.tokens.Verify(token)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("token rejected")
		return domain.User{}, invalid
	}

	var u domain.User
	err = s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		u, err = repo.GetUserByEmail(ctx, email)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, invalid
	}
	return u, err
}
