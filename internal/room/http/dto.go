package http

import (
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/room"
)

type RoomResponse struct {
	ID        string    `json:"id"`
	HotelID   string    `json:"hotel_id"`
	HotelName string    `json:"hotel_name"`
	Number    string    `json:"number"`
	Floor     int       `json:"floor"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewResponse(rm *room.Room) RoomResponse {
	return RoomResponse{
		ID:        rm.ID,
		HotelID:   rm.HotelID,
		HotelName: rm.HotelName,
		Number:    rm.Number,
		Floor:     rm.Floor,
		Capacity:  rm.Capacity,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}

type CreateRequest struct {
	HotelID  string `json:"hotel_id" binding:"required,uuid"`
	Number   string `json:"number" binding:"required"`
	Floor    int    `json:"floor" binding:"omitempty"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

type UpdateRequest struct {
	Number   *string `json:"number" binding:"omitempty"`
	Floor    *int    `json:"floor" binding:"omitempty"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
}

type ListRequest struct {
	HotelID  string `form:"hotel_id" binding:"omitempty,uuid"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}
