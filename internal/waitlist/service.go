package waitlist

import (
	"context"
	"log"
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/conflict"
	"github.com/linyuhan/hotel-ops-backend/internal/notify"
)

// promotionBatch bounds how many candidates one promotion pass inspects.
// Skipped candidates (window no longer free, or lost a concurrent race)
// stay waiting for the next pass.
const promotionBatch = 20

// JoinRequest asks to queue for a currently-unavailable room.
// Priority 0 means "use the default"; lower values are served first and
// values below the default are reserved for privileged callers.
type JoinRequest struct {
	RoomID     string
	UserID     string
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int
	Priority   int
}

type Service interface {
	Join(ctx context.Context, req JoinRequest) (*Entry, error)

	// Position reports how many waiting entries for the same room rank ahead
	// of the given one. Best-effort snapshot: concurrent joins and
	// promotions may shift the answer between calls.
	Position(ctx context.Context, entryID string) (int, error)

	// Leave withdraws an entry. Only the owning user may do so. Withdrawing
	// a notified entry frees its slot, which cascades to the next candidate.
	Leave(ctx context.Context, entryID, requesterID string) error

	// PromoteRoom notifies the highest-ranked waiting entry whose requested
	// window is still free. No-op when no candidate is eligible.
	PromoteRoom(ctx context.Context, roomID string) error

	// Confirm converts a notified entry into a booking.
	Confirm(ctx context.Context, entryID, orderID string) (*Entry, error)

	// SweepExpired expires past-due notified entries and cascades promotion
	// for the affected rooms. Idempotent; returns the number swept.
	SweepExpired(ctx context.Context) (int, error)
}

type service struct {
	repo          Repository
	detector      *conflict.Detector
	notifier      notify.Notifier
	confirmWindow time.Duration
}

func NewService(repo Repository, detector *conflict.Detector, notifier notify.Notifier, confirmWindow time.Duration) Service {
	return &service{
		repo:          repo,
		detector:      detector,
		notifier:      notifier,
		confirmWindow: confirmWindow,
	}
}

func (s *service) Join(ctx context.Context, req JoinRequest) (*Entry, error) {
	if req.GuestCount <= 0 {
		return nil, ErrInvalidGuestCount
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, ErrInvalidDateRange
	}

	priority := req.Priority
	if priority <= 0 {
		priority = DefaultPriority
	}

	e := &Entry{
		RoomID:     req.RoomID,
		UserID:     req.UserID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		GuestCount: req.GuestCount,
		Priority:   priority,
		Status:     StatusWaiting,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Position(ctx context.Context, entryID string) (int, error) {
	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return 0, err
	}

	// A non-waiting entry is not queued behind anyone.
	if e.Status != StatusWaiting {
		return 0, nil
	}

	return s.repo.CountAhead(ctx, e)
}

func (s *service) Leave(ctx context.Context, entryID, requesterID string) error {
	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if e.UserID != requesterID {
		return ErrNotOwner
	}

	prior, withdrawn, err := s.repo.Withdraw(ctx, entryID)
	if err != nil {
		return err
	}
	if !withdrawn {
		// Confirmed or expired in the meantime; nothing to undo.
		return nil
	}

	// A withdrawn notification frees the slot for the next candidate.
	if prior == StatusNotified {
		if err := s.PromoteRoom(ctx, e.RoomID); err != nil {
			log.Printf("cascade promotion for room %s failed: %v", e.RoomID, err)
		}
	}
	return nil
}

func (s *service) PromoteRoom(ctx context.Context, roomID string) error {
	candidates, err := s.repo.ListWaiting(ctx, roomID, promotionBatch)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		result, err := s.detector.Detect(ctx, conflict.Window{
			RoomID:   c.RoomID,
			CheckIn:  c.CheckIn,
			CheckOut: c.CheckOut,
		}, "")
		if err != nil {
			log.Printf("promotion recheck for entry %s failed: %v", c.ID, err)
			continue
		}
		if result.HasConflict {
			// Requested dates are taken again; keep waiting.
			continue
		}

		expiresAt := time.Now().UTC().Add(s.confirmWindow)
		ok, err := s.repo.MarkNotified(ctx, c.ID, expiresAt)
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race (concurrent promote or withdrawal); try the next.
			continue
		}

		if err := s.notifier.NotifyPromoted(ctx, notify.PromotionNotice{
			EntryID:   c.ID,
			RoomID:    c.RoomID,
			UserID:    c.UserID,
			CheckIn:   c.CheckIn,
			CheckOut:  c.CheckOut,
			ExpiresAt: expiresAt,
		}); err != nil {
			log.Printf("notify promoted entry %s failed: %v", c.ID, err)
		}
		return nil
	}

	return nil
}

func (s *service) Confirm(ctx context.Context, entryID, orderID string) (*Entry, error) {
	ok, err := s.repo.Confirm(ctx, entryID, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Unknown entry, or it already expired, confirmed, or was withdrawn.
		if _, err := s.repo.GetByID(ctx, entryID); err != nil {
			return nil, err
		}
		return nil, ErrNotConfirmable
	}

	return s.repo.GetByID(ctx, entryID)
}

func (s *service) SweepExpired(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	due, err := s.repo.ListExpired(ctx, now, 100)
	if err != nil {
		return 0, err
	}

	swept := 0
	rooms := make(map[string]struct{})
	for _, e := range due {
		ok, err := s.repo.Expire(ctx, e.ID, now)
		if err != nil {
			// Skip and keep sweeping; the next tick retries.
			log.Printf("expire waitlist entry %s failed: %v", e.ID, err)
			continue
		}
		if !ok {
			// Confirmed or withdrawn between the scan and the write.
			continue
		}
		swept++
		rooms[e.RoomID] = struct{}{}
	}

	for roomID := range rooms {
		if err := s.PromoteRoom(ctx, roomID); err != nil {
			log.Printf("post-sweep promotion for room %s failed: %v", roomID, err)
		}
	}

	return swept, nil
}
