// Package notify is the engine's outbound notification port. Delivery is
// fire-and-forget: a failed notification never rolls back the waitlist state
// change that triggered it.
package notify

import (
	"context"
	"log"
	"time"
)

// PromotionNotice tells a waitlisted guest their room is ready to confirm.
type PromotionNotice struct {
	EntryID   string    `json:"entry_id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier delivers promotion notices to the external notification subsystem.
type Notifier interface {
	NotifyPromoted(ctx context.Context, notice PromotionNotice) error
}

// LogNotifier writes notices to the process log. Used when no broker is
// configured and as the local development default.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) NotifyPromoted(_ context.Context, notice PromotionNotice) error {
	log.Printf("waitlist promotion: entry %s room %s user %s confirm by %s",
		notice.EntryID, notice.RoomID, notice.UserID, notice.ExpiresAt.Format(time.RFC3339))
	return nil
}
