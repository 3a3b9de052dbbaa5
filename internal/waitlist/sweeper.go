package waitlist

import (
	"context"
	"log"
	"time"
)

// Sweeper runs the periodic expiry sweep, decoupled from the request path.
type Sweeper struct {
	service  Service
	interval time.Duration
}

func NewSweeper(service Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled, invoking SweepExpired once per interval.
// Sweep errors are logged; the ticker keeps going because the sweep is
// idempotent and the next tick retries whatever was skipped.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("waitlist sweeper running every %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("waitlist sweeper stopped")
			return
		case <-ticker.C:
			count, err := s.service.SweepExpired(ctx)
			if err != nil {
				log.Printf("waitlist sweep failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("waitlist sweep expired %d entries", count)
			}
		}
	}
}
