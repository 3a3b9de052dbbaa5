package waitlist

import (
	"net/http"
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/pkg/apperror"
)

var (
	ErrEntryNotFound     = apperror.New(http.StatusNotFound, "waitlist entry not found")
	ErrInvalidGuestCount = apperror.New(http.StatusBadRequest, "guest count must be positive")
	ErrInvalidDateRange  = apperror.New(http.StatusBadRequest, "check-out must be after check-in")
	ErrDuplicateEntry    = apperror.New(http.StatusConflict, "active waitlist entry already exists for this stay")
	ErrNotOwner          = apperror.New(http.StatusForbidden, "only the requesting guest may withdraw this entry")
	ErrNotConfirmable    = apperror.New(http.StatusConflict, "waitlist entry is not awaiting confirmation")
)

// DefaultPriority is assigned to entries whose caller does not supply one.
// Lower values are served first.
const DefaultPriority = 100

// EntryStatus moves forward only:
//
//	waiting -> notified | cancelled
//	notified -> confirmed | expired
//
// No status ever returns to waiting.
type EntryStatus string

const (
	StatusWaiting   EntryStatus = "waiting"
	StatusNotified  EntryStatus = "notified"
	StatusConfirmed EntryStatus = "confirmed"
	StatusExpired   EntryStatus = "expired"
	StatusCancelled EntryStatus = "cancelled"
)

// Entry is a pending request for a room that was unavailable when asked.
// Entries are never physically deleted; Deleted tombstones a user withdrawal
// and every query filters it out.
//
// ExpiresAt is non-nil exactly while the entry is notified.
type Entry struct {
	ID               string
	RoomID           string
	UserID           string
	CheckIn          time.Time
	CheckOut         time.Time
	GuestCount       int
	Priority         int
	Status           EntryStatus
	ConfirmedOrderID *string
	ExpiresAt        *time.Time
	CreatedAt        time.Time
	Deleted          bool
}
