package roomstatus

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Promoter is notified when a room becomes bookable again. Implemented by the
// waitlist service; wired in by the container to avoid a package cycle.
type Promoter interface {
	PromoteRoom(ctx context.Context, roomID string) error
}

// TransitionRequest describes one attempted state change.
type TransitionRequest struct {
	RoomID          string
	To              State
	Reason          string
	ActorID         string
	LinkedOrderID   *string
	ExpectedVersion int64
}

type Service interface {
	// Transition applies a state change guarded by the version gate. Any
	// state is reachable from any other; which transitions make operational
	// sense is the caller's policy. A version mismatch surfaces as
	// ErrVersionMismatch with no write; this service never retries.
	Transition(ctx context.Context, req TransitionRequest) (*RoomStatus, error)

	Get(ctx context.Context, roomID string) (*RoomStatus, error)
	IsAvailable(ctx context.Context, roomID string) (bool, error)
	CheckMany(ctx context.Context, roomIDs []string) (map[string]bool, error)
	History(ctx context.Context, roomID string, filter HistoryFilter) ([]*LogEntry, error)
}

type service struct {
	repo     Repository
	promoter Promoter

	// cache may be nil; reads then go straight to the store.
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewService(repo Repository, promoter Promoter, cache *redis.Client, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		promoter: promoter,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func availabilityKey(roomID string) string {
	return "roomavail:" + roomID
}

func (s *service) Transition(ctx context.Context, req TransitionRequest) (*RoomStatus, error) {
	rs, fromState, err := s.repo.Transition(ctx, req.RoomID, req.To, req.Reason, req.ActorID, req.LinkedOrderID, req.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.RoomID)

	// A room leaving occupied/maintenance/cleaning for available frees a
	// slot: hand it to the waitlist. Promotion failure never rolls back the
	// committed transition.
	if fromState.Occupying() && req.To == StateAvailable && s.promoter != nil {
		if err := s.promoter.PromoteRoom(ctx, req.RoomID); err != nil {
			log.Printf("waitlist promotion for room %s failed: %v", req.RoomID, err)
		}
	}

	return rs, nil
}

func (s *service) Get(ctx context.Context, roomID string) (*RoomStatus, error) {
	return s.repo.Get(ctx, roomID)
}

func (s *service) IsAvailable(ctx context.Context, roomID string) (bool, error) {
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, availabilityKey(roomID)).Result(); err == nil {
			return val == "1", nil
		}
	}

	rs, err := s.repo.Get(ctx, roomID)
	if err != nil {
		return false, err
	}

	available := rs.State == StateAvailable
	s.prime(ctx, roomID, available)
	return available, nil
}

func (s *service) CheckMany(ctx context.Context, roomIDs []string) (map[string]bool, error) {
	statuses, err := s.repo.GetMany(ctx, roomIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*RoomStatus, len(statuses))
	for _, rs := range statuses {
		byID[rs.RoomID] = rs
	}

	// Unknown rooms report as unavailable rather than erroring the batch.
	result := make(map[string]bool, len(roomIDs))
	for _, id := range roomIDs {
		rs, ok := byID[id]
		available := ok && rs.State == StateAvailable
		result[id] = available
		if ok {
			s.prime(ctx, id, available)
		}
	}
	return result, nil
}

func (s *service) History(ctx context.Context, roomID string, filter HistoryFilter) ([]*LogEntry, error) {
	return s.repo.History(ctx, roomID, filter)
}

func (s *service) prime(ctx context.Context, roomID string, available bool) {
	if s.cache == nil {
		return
	}
	val := "0"
	if available {
		val = "1"
	}
	if err := s.cache.Set(ctx, availabilityKey(roomID), val, s.cacheTTL).Err(); err != nil {
		log.Printf("prime availability cache for room %s failed: %v", roomID, err)
	}
}

func (s *service) invalidate(ctx context.Context, roomID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, availabilityKey(roomID)).Err(); err != nil {
		log.Printf("invalidate availability cache for room %s failed: %v", roomID, err)
	}
}
