package hotel

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name     string
	Address  string
	Timezone string
}

type UpdateRequest struct {
	Name     *string
	Address  *string
	Timezone *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Hotel, error)
	GetByID(ctx context.Context, id string) (*Hotel, error)
	List(ctx context.Context, filter Filter) ([]*Hotel, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Hotel, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Hotel, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}

	h := &Hotel{
		Name:     name,
		Address:  req.Address,
		Timezone: tz,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Hotel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Hotel, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Hotel, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		h.Name = name
	}
	if req.Address != nil {
		h.Address = *req.Address
	}
	if req.Timezone != nil {
		h.Timezone = *req.Timezone
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
