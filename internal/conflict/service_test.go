package conflict

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRecordRepo struct {
	records map[string]*Record
	nextID  int
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: make(map[string]*Record)}
}

func (r *memRecordRepo) Create(_ context.Context, rec *Record) error {
	r.nextID++
	rec.ID = fmt.Sprintf("rec-%d", r.nextID)
	rec.CreatedAt = time.Now().UTC()
	clone := *rec
	r.records[rec.ID] = &clone
	return nil
}

func (r *memRecordRepo) GetByID(_ context.Context, id string) (*Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *memRecordRepo) List(_ context.Context, filter Filter) ([]*Record, int, error) {
	var out []*Record
	for _, rec := range r.records {
		if filter.Status != "" && string(rec.Status) != filter.Status {
			continue
		}
		clone := *rec
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *memRecordRepo) Moderate(_ context.Context, id string, status RecordStatus) (bool, error) {
	rec, ok := r.records[id]
	if !ok || rec.Status != StatusDetected {
		return false, nil
	}
	rec.Status = status
	return true, nil
}

func TestResolveFree(t *testing.T) {
	repo := newMemRecordRepo()
	svc := NewService(NewDetector(&stubWindowSource{}), repo)

	res, err := svc.Resolve(context.Background(), Window{
		RoomID:      "room-100",
		RequesterID: "user-1",
		CheckIn:     date(2026, time.March, 1),
		CheckOut:    date(2026, time.March, 3),
	})
	require.NoError(t, err)
	assert.True(t, res.Free)
	assert.Empty(t, res.Conflicting)
	assert.Empty(t, res.RecordID)
	assert.Empty(t, repo.records, "a free result must not create an audit record")
}

func TestResolveConflictPersistsRecord(t *testing.T) {
	source := &stubWindowSource{
		windows: []Window{
			{RoomID: "room-100", OrderID: "order-1", CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 5)},
		},
	}
	repo := newMemRecordRepo()
	svc := NewService(NewDetector(source), repo)

	res, err := svc.Resolve(context.Background(), Window{
		RoomID:      "room-100",
		RequesterID: "user-1",
		CheckIn:     date(2026, time.March, 2),
		CheckOut:    date(2026, time.March, 4),
	})
	require.NoError(t, err)
	assert.False(t, res.Free)
	require.Len(t, res.Conflicting, 1)
	require.NotEmpty(t, res.RecordID)

	rec, err := repo.GetByID(context.Background(), res.RecordID)
	require.NoError(t, err)
	assert.Equal(t, StatusDetected, rec.Status)
	assert.Equal(t, TypeTimeOverlap, rec.Type)
	assert.Equal(t, "user-1", rec.UserID)
}

func TestModerate(t *testing.T) {
	source := &stubWindowSource{
		windows: []Window{
			{RoomID: "room-100", CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 5)},
		},
	}
	repo := newMemRecordRepo()
	svc := NewService(NewDetector(source), repo)

	res, err := svc.Resolve(context.Background(), Window{
		RoomID:   "room-100",
		CheckIn:  date(2026, time.March, 2),
		CheckOut: date(2026, time.March, 4),
	})
	require.NoError(t, err)

	rec, err := svc.Moderate(context.Background(), res.RecordID, StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, rec.Status)

	// Second moderation loses: the record is no longer detected.
	_, err = svc.Moderate(context.Background(), res.RecordID, StatusIgnored)
	assert.ErrorIs(t, err, ErrAlreadyModerated)

	_, err = svc.Moderate(context.Background(), "rec-missing", StatusResolved)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = svc.Moderate(context.Background(), res.RecordID, StatusDetected)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
