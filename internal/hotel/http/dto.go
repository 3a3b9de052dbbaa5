package http

import (
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/hotel"
)

type HotelResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewResponse(h *hotel.Hotel) HotelResponse {
	return HotelResponse{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		Timezone:  h.Timezone,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

type CreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address" binding:"omitempty"`
	Timezone string `json:"timezone" binding:"omitempty,timezone"`
}

type UpdateRequest struct {
	Name     *string `json:"name" binding:"omitempty"`
	Address  *string `json:"address" binding:"omitempty"`
	Timezone *string `json:"timezone" binding:"omitempty,timezone"`
}

type ListRequest struct {
	Name     string `form:"name"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}
