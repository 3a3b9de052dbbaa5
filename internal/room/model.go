package room

import (
	"net/http"
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "room not found")
	ErrHotelNotFound   = apperror.New(http.StatusNotFound, "hotel not found")
	ErrNumberRequired  = apperror.New(http.StatusBadRequest, "room number is required")
	ErrDuplicateNumber = apperror.New(http.StatusConflict, "room number already used in this hotel")
	ErrInvalidCapacity = apperror.New(http.StatusBadRequest, "capacity must be positive")
)

type Room struct {
	ID        string
	HotelID   string
	HotelName string
	Number    string
	Floor     int
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines options for listing rooms.
type Filter struct {
	HotelID  string
	Page     int
	PageSize int
}
