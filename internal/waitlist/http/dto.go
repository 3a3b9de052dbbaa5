package http

import (
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/pkg/request"
	"github.com/linyuhan/hotel-ops-backend/internal/waitlist"
)

type JoinRequest struct {
	RoomID     string `json:"room_id" binding:"required,uuid"`
	CheckIn    string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" binding:"required,datetime=2006-01-02"`
	GuestCount int    `json:"guest_count" binding:"required,min=1"`
	Priority   int    `json:"priority" binding:"omitempty,min=1"`
}

type EntryResponse struct {
	ID               string     `json:"id"`
	RoomID           string     `json:"room_id"`
	UserID           string     `json:"user_id"`
	CheckIn          string     `json:"check_in"`
	CheckOut         string     `json:"check_out"`
	GuestCount       int        `json:"guest_count"`
	Priority         int        `json:"priority"`
	Status           string     `json:"status"`
	ConfirmedOrderID *string    `json:"confirmed_order_id,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func newEntryResponse(e *waitlist.Entry) EntryResponse {
	return EntryResponse{
		ID:               e.ID,
		RoomID:           e.RoomID,
		UserID:           e.UserID,
		CheckIn:          e.CheckIn.Format(request.DateLayout),
		CheckOut:         e.CheckOut.Format(request.DateLayout),
		GuestCount:       e.GuestCount,
		Priority:         e.Priority,
		Status:           string(e.Status),
		ConfirmedOrderID: e.ConfirmedOrderID,
		ExpiresAt:        e.ExpiresAt,
		CreatedAt:        e.CreatedAt,
	}
}

type PositionResponse struct {
	Position int `json:"position"`
}

type ConfirmRequest struct {
	OrderID string `json:"order_id" binding:"required,uuid"`
}

type SweepResponse struct {
	Swept int `json:"swept"`
}
