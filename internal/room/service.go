package room

import (
	"context"
	"errors"
	"strings"

	"github.com/linyuhan/hotel-ops-backend/internal/hotel"
	"github.com/linyuhan/hotel-ops-backend/internal/roomstatus"
)

type CreateRequest struct {
	HotelID  string
	Number   string
	Floor    int
	Capacity int
}

type UpdateRequest struct {
	Number   *string
	Floor    *int
	Capacity *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Room, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	hotels     hotel.Service
	statusRepo roomstatus.Repository
}

func NewService(repo Repository, hotels hotel.Service, statusRepo roomstatus.Repository) Service {
	return &service{
		repo:       repo,
		hotels:     hotels,
		statusRepo: statusRepo,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Room, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return nil, ErrNumberRequired
	}
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	if _, err := s.hotels.GetByID(ctx, req.HotelID); err != nil {
		if errors.Is(err, hotel.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}

	rm := &Room{
		HotelID:  req.HotelID,
		Number:   number,
		Floor:    req.Floor,
		Capacity: req.Capacity,
	}
	if err := s.repo.Create(ctx, rm); err != nil {
		return nil, err
	}

	// New rooms start available at version 0.
	if err := s.statusRepo.Init(ctx, rm.ID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, rm.ID)
}

func (s *service) GetByID(ctx context.Context, id string) (*Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Room, error) {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Number != nil {
		number := strings.TrimSpace(*req.Number)
		if number == "" {
			return nil, ErrNumberRequired
		}
		rm.Number = number
	}
	if req.Floor != nil {
		rm.Floor = *req.Floor
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		rm.Capacity = *req.Capacity
	}

	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
