package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/HANSBIANDJI/bksmell/internal/apperr"
)

type Service struct {
	repo   Repository
	tokens *TokenIssuer
}

func NewService(repo Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates the account and returns it with a fresh token.
// Duplicate emails come back as a validation error, matching the
// storefront's 400 on re-registration.
func (s *Service) Register(ctx context.Context, email, password, name string) (*User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.Validation("email and password are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", apperr.Persistence("hash error", err)
	}
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			return nil, "", apperr.Validation("email already registered")
		}
		return nil, "", apperr.Persistence("create user", err)
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", apperr.Persistence("issue token", err)
	}
	return u, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", apperr.Auth("invalid credentials")
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, "", apperr.Auth("invalid credentials")
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", apperr.Persistence("issue token", err)
	}
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}
