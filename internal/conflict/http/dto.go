package http

import (
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/conflict"
	"github.com/linyuhan/hotel-ops-backend/internal/pkg/request"
)

type DetectRequest struct {
	RoomID   string `json:"room_id" binding:"required,uuid"`
	CheckIn  string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" binding:"required,datetime=2006-01-02"`
}

type WindowResponse struct {
	RoomID   string `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func newWindowResponse(w conflict.Window) WindowResponse {
	return WindowResponse{
		RoomID:   w.RoomID,
		CheckIn:  w.CheckIn.Format(request.DateLayout),
		CheckOut: w.CheckOut.Format(request.DateLayout),
	}
}

type DetectResponse struct {
	HasConflict bool             `json:"has_conflict"`
	Conflicting []WindowResponse `json:"conflicting"`
	RecordID    string           `json:"record_id,omitempty"`
}

type RecordResponse struct {
	ID                string    `json:"id"`
	RoomID            string    `json:"room_id"`
	UserID            string    `json:"user_id"`
	RequestedCheckIn  string    `json:"requested_check_in"`
	RequestedCheckOut string    `json:"requested_check_out"`
	Type              string    `json:"conflict_type"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

func newRecordResponse(rec *conflict.Record) RecordResponse {
	return RecordResponse{
		ID:                rec.ID,
		RoomID:            rec.RoomID,
		UserID:            rec.UserID,
		RequestedCheckIn:  rec.RequestedCheckIn.Format(request.DateLayout),
		RequestedCheckOut: rec.RequestedCheckOut.Format(request.DateLayout),
		Type:              string(rec.Type),
		Status:            string(rec.Status),
		CreatedAt:         rec.CreatedAt,
	}
}

type ListRequest struct {
	RoomID   string `form:"room_id" binding:"omitempty,uuid"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=detected resolved ignored"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type ModerateRequest struct {
	Status string `json:"status" binding:"required,oneof=resolved ignored"`
}
