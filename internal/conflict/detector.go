package conflict

import (
	"context"
	"time"
)

// WindowSource supplies the active (non-cancelled) reservation windows for a
// room. Implemented by the order subsystem adapter.
type WindowSource interface {
	ActiveWindows(ctx context.Context, roomID string) ([]Window, error)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any time. Back-to-back ranges (aEnd == bStart) do not
// overlap, so same-day checkout/check-in is allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DetectionResult is the outcome of a conflict check. A positive HasConflict
// is a normal outcome, not an error.
type DetectionResult struct {
	HasConflict bool
	Conflicting []Window
}

// Detector answers whether a candidate window clashes with any active
// reservation for the same room. It is read-only and advisory: the
// authoritative check happens at commit time via the room status version gate.
type Detector struct {
	source WindowSource
}

func NewDetector(source WindowSource) *Detector {
	return &Detector{source: source}
}

// Detect fetches the room's active windows and collects those overlapping the
// candidate. excludeOrderID skips the window belonging to a given order, used
// when rechecking a reservation against everything but itself.
func (d *Detector) Detect(ctx context.Context, candidate Window, excludeOrderID string) (*DetectionResult, error) {
	if !candidate.CheckOut.After(candidate.CheckIn) {
		return nil, ErrInvalidDateRange
	}

	active, err := d.source.ActiveWindows(ctx, candidate.RoomID)
	if err != nil {
		return nil, err
	}

	result := &DetectionResult{Conflicting: []Window{}}
	for _, w := range active {
		if excludeOrderID != "" && w.OrderID == excludeOrderID {
			continue
		}
		if Overlaps(candidate.CheckIn, candidate.CheckOut, w.CheckIn, w.CheckOut) {
			result.Conflicting = append(result.Conflicting, w)
		}
	}
	result.HasConflict = len(result.Conflicting) > 0

	return result, nil
}
