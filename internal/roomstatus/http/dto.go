package http

import (
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/roomstatus"
)

type StatusResponse struct {
	RoomID        string    `json:"room_id"`
	State         string    `json:"state"`
	Version       int64     `json:"version"`
	LinkedOrderID *string   `json:"linked_order_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newStatusResponse(rs *roomstatus.RoomStatus) StatusResponse {
	return StatusResponse{
		RoomID:        rs.RoomID,
		State:         string(rs.State),
		Version:       rs.Version,
		LinkedOrderID: rs.LinkedOrderID,
		UpdatedAt:     rs.UpdatedAt,
	}
}

// TransitionRequest carries the caller's expected version: the write only
// happens if the stored version still matches.
type TransitionRequest struct {
	State           string  `json:"state" binding:"required,oneof=available occupied maintenance cleaning"`
	Reason          string  `json:"reason" binding:"required,max=500"`
	LinkedOrderID   *string `json:"linked_order_id" binding:"omitempty,uuid"`
	ExpectedVersion *int64  `json:"expected_version" binding:"required,min=0"`
}

type LogEntryResponse struct {
	ID            string    `json:"id"`
	RoomID        string    `json:"room_id"`
	FromState     string    `json:"from_state"`
	ToState       string    `json:"to_state"`
	Reason        string    `json:"reason"`
	ActorID       string    `json:"actor_id"`
	LinkedOrderID *string   `json:"linked_order_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func newLogEntryResponse(e *roomstatus.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		ID:            e.ID,
		RoomID:        e.RoomID,
		FromState:     string(e.FromState),
		ToState:       string(e.ToState),
		Reason:        e.Reason,
		ActorID:       e.ActorID,
		LinkedOrderID: e.LinkedOrderID,
		CreatedAt:     e.CreatedAt,
	}
}

type HistoryRequest struct {
	From  *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To    *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit int        `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
}

type AvailabilityRequest struct {
	RoomIDs []string `json:"room_ids" binding:"required,min=1,max=200,dive,uuid"`
}

type AvailabilityResponse struct {
	Availability map[string]bool `json:"availability"`
}
