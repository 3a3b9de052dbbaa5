package conflict

import (
	"net/http"
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/pkg/apperror"
)

var (
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "check-out must be after check-in")
	ErrRecordNotFound   = apperror.New(http.StatusNotFound, "conflict record not found")
	ErrAlreadyModerated = apperror.New(http.StatusConflict, "conflict record already moderated")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid conflict record status")
)

// Type tags the kind of clash a record describes. Only time overlap exists
// today; the column is kept open for future variants (e.g. capacity).
type Type string

const (
	TypeTimeOverlap Type = "time_overlap"
)

// RecordStatus is the moderation state of a conflict record.
type RecordStatus string

const (
	StatusDetected RecordStatus = "detected"
	StatusResolved RecordStatus = "resolved"
	StatusIgnored  RecordStatus = "ignored"
)

// Window is a requested or existing occupancy of a room over [CheckIn, CheckOut).
// CheckOut is exclusive: a guest checking out on a date frees the room for a
// same-day check-in. Not persisted by this package; existing windows come from
// the order subsystem.
type Window struct {
	RoomID      string
	OrderID     string // set on windows sourced from existing orders
	RequesterID string
	CheckIn     time.Time
	CheckOut    time.Time
	GuestCount  int
}

// Record is the audit trail of a detected booking clash. Read-mostly; only
// Status may change, through an external moderation action.
type Record struct {
	ID                string
	RoomID            string
	UserID            string
	RequestedCheckIn  time.Time
	RequestedCheckOut time.Time
	Type              Type
	Status            RecordStatus
	CreatedAt         time.Time
}

// Filter defines options for listing conflict records.
type Filter struct {
	RoomID   string
	UserID   string
	Status   string
	Page     int
	PageSize int
}
