package user

import (
	"context"
	"errors"
	"strings"

	"github.com/linyuhan/hotel-ops-backend/internal/auth"
)

type RegisterRequest struct {
	Email       string
	Password    string
	DisplayName string
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	// Authenticate checks credentials and returns the account on success.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	GetByID(ctx context.Context, id string) (*User, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
