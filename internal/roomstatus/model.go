package roomstatus

import (
	"net/http"
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/pkg/apperror"
)

var (
	ErrRoomNotFound = apperror.New(http.StatusNotFound, "room status not found")
	ErrInvalidState = apperror.New(http.StatusBadRequest, "invalid room state")
	// ErrVersionMismatch means the caller's expected version is stale. The
	// write did not happen; retrying is the caller's decision.
	ErrVersionMismatch = apperror.New(http.StatusConflict, "room status version mismatch")
)

// State is the operational state of a room.
type State string

const (
	StateAvailable   State = "available"
	StateOccupied    State = "occupied"
	StateMaintenance State = "maintenance"
	StateCleaning    State = "cleaning"
)

// ParseState validates a raw state string.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateAvailable, StateOccupied, StateMaintenance, StateCleaning:
		return State(s), nil
	default:
		return "", ErrInvalidState
	}
}

// Occupying reports whether the state keeps the room from new guests.
// Leaving any of these for available is what triggers waitlist promotion.
func (s State) Occupying() bool {
	switch s {
	case StateOccupied, StateMaintenance, StateCleaning:
		return true
	default:
		return false
	}
}

// RoomStatus is the single mutable projection of "is this room usable right
// now". One row per room. Version strictly increases by 1 per accepted
// transition and is the arbitration point for all writers.
type RoomStatus struct {
	RoomID        string
	State         State
	Version       int64
	LinkedOrderID *string
	UpdatedAt     time.Time
}

// LogEntry is one line of the append-only transition audit trail.
type LogEntry struct {
	ID            string
	RoomID        string
	FromState     State
	ToState       State
	Reason        string
	ActorID       string
	LinkedOrderID *string
	CreatedAt     time.Time
}

// HistoryFilter narrows a history read.
type HistoryFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}
