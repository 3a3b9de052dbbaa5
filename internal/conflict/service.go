package conflict

import (
	"context"
)

// Resolution is the answer to "can this reservation go ahead?". Free means the
// caller may proceed to create the order and commit the room status; otherwise
// Conflicting carries the clashing windows and RecordID the audit record.
type Resolution struct {
	Free        bool
	Conflicting []Window
	RecordID    string
}

type Service interface {
	// Resolve runs conflict detection for a candidate window. On a clash it
	// persists a detected conflict record for reporting. Advisory only: it
	// reserves nothing, and the final authority is the optimistic-concurrency
	// commit on room status.
	Resolve(ctx context.Context, candidate Window) (*Resolution, error)

	ListRecords(ctx context.Context, filter Filter) ([]*Record, int, error)

	// Moderate closes a detected record as resolved or ignored.
	Moderate(ctx context.Context, id string, status RecordStatus) (*Record, error)
}

type service struct {
	detector *Detector
	repo     Repository
}

func NewService(detector *Detector, repo Repository) Service {
	return &service{
		detector: detector,
		repo:     repo,
	}
}

func (s *service) Resolve(ctx context.Context, candidate Window) (*Resolution, error) {
	result, err := s.detector.Detect(ctx, candidate, "")
	if err != nil {
		return nil, err
	}

	if !result.HasConflict {
		return &Resolution{Free: true, Conflicting: []Window{}}, nil
	}

	rec := &Record{
		RoomID:            candidate.RoomID,
		UserID:            candidate.RequesterID,
		RequestedCheckIn:  candidate.CheckIn,
		RequestedCheckOut: candidate.CheckOut,
		Type:              TypeTimeOverlap,
		Status:            StatusDetected,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	return &Resolution{
		Free:        false,
		Conflicting: result.Conflicting,
		RecordID:    rec.ID,
	}, nil
}

func (s *service) ListRecords(ctx context.Context, filter Filter) ([]*Record, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Moderate(ctx context.Context, id string, status RecordStatus) (*Record, error) {
	if status != StatusResolved && status != StatusIgnored {
		return nil, ErrInvalidStatus
	}

	ok, err := s.repo.Moderate(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Either the record does not exist or someone moderated it first.
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyModerated
	}

	return s.repo.GetByID(ctx, id)
}
