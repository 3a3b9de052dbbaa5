package waitlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linyuhan/hotel-ops-backend/internal/conflict"
	"github.com/linyuhan/hotel-ops-backend/internal/notify"
)

// memEntryRepo mirrors the storage semantics the SQL repository relies on:
// tombstone filtering, rank ordering, and conditional status writes.
type memEntryRepo struct {
	mu      sync.Mutex
	entries map[string]*Entry
	seq     int
	base    time.Time
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{
		entries: make(map[string]*Entry),
		base:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memEntryRepo) Create(_ context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.entries {
		if existing.Deleted {
			continue
		}
		if existing.Status != StatusWaiting && existing.Status != StatusNotified {
			continue
		}
		if existing.RoomID == e.RoomID && existing.UserID == e.UserID &&
			existing.CheckIn.Equal(e.CheckIn) && existing.CheckOut.Equal(e.CheckOut) {
			return ErrDuplicateEntry
		}
	}

	r.seq++
	e.ID = fmt.Sprintf("entry-%03d", r.seq)
	e.CreatedAt = r.base.Add(time.Duration(r.seq) * time.Second)
	clone := *e
	r.entries[e.ID] = &clone
	return nil
}

func (r *memEntryRepo) GetByID(_ context.Context, id string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.Deleted {
		return nil, ErrEntryNotFound
	}
	clone := *e
	return &clone, nil
}

func rankBefore(a, b *Entry) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (r *memEntryRepo) CountAhead(_ context.Context, e *Entry) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, other := range r.entries {
		if other.Deleted || other.Status != StatusWaiting || other.RoomID != e.RoomID || other.ID == e.ID {
			continue
		}
		if rankBefore(other, e) {
			count++
		}
	}
	return count, nil
}

func (r *memEntryRepo) ListWaiting(_ context.Context, roomID string, limit int) ([]*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Entry
	for _, e := range r.entries {
		if !e.Deleted && e.Status == StatusWaiting && e.RoomID == roomID {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return rankBefore(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memEntryRepo) Withdraw(_ context.Context, id string) (EntryStatus, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.Deleted {
		return "", false, ErrEntryNotFound
	}
	switch e.Status {
	case StatusWaiting:
		e.Status = StatusCancelled
		e.Deleted = true
		return StatusWaiting, true, nil
	case StatusNotified:
		e.Deleted = true
		return StatusNotified, true, nil
	default:
		return e.Status, false, nil
	}
}

func (r *memEntryRepo) MarkNotified(_ context.Context, id string, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.Deleted || e.Status != StatusWaiting {
		return false, nil
	}
	e.Status = StatusNotified
	e.ExpiresAt = &expiresAt
	return true, nil
}

func (r *memEntryRepo) Confirm(_ context.Context, id string, orderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.Deleted || e.Status != StatusNotified {
		return false, nil
	}
	e.Status = StatusConfirmed
	e.ConfirmedOrderID = &orderID
	e.ExpiresAt = nil
	return true, nil
}

func (r *memEntryRepo) ListExpired(_ context.Context, now time.Time, limit int) ([]*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Entry
	for _, e := range r.entries {
		if !e.Deleted && e.Status == StatusNotified && e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memEntryRepo) Expire(_ context.Context, id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.Deleted || e.Status != StatusNotified || e.ExpiresAt == nil || e.ExpiresAt.After(now) {
		return false, nil
	}
	e.Status = StatusExpired
	e.ExpiresAt = nil
	return true, nil
}

// setStatus mutates an entry directly, for arranging test preconditions.
func (r *memEntryRepo) setStatus(id string, status EntryStatus, expiresAt *time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entries[id]
	e.Status = status
	e.ExpiresAt = expiresAt
}

type memWindowSource struct {
	mu      sync.Mutex
	windows map[string][]conflict.Window
}

func newMemWindowSource() *memWindowSource {
	return &memWindowSource{windows: make(map[string][]conflict.Window)}
}

func (s *memWindowSource) ActiveWindows(_ context.Context, roomID string) ([]conflict.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windows[roomID], nil
}

func (s *memWindowSource) book(roomID string, checkIn, checkOut time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[roomID] = append(s.windows[roomID], conflict.Window{
		RoomID: roomID, CheckIn: checkIn, CheckOut: checkOut,
	})
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.PromotionNotice
	err     error
}

func (n *recordingNotifier) NotifyPromoted(_ context.Context, notice notify.PromotionNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

func (n *recordingNotifier) sent() []notify.PromotionNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.PromotionNotice, len(n.notices))
	copy(out, n.notices)
	return out
}

type fixture struct {
	svc      Service
	repo     *memEntryRepo
	source   *memWindowSource
	notifier *recordingNotifier
}

func newFixture() *fixture {
	repo := newMemEntryRepo()
	source := newMemWindowSource()
	notifier := &recordingNotifier{}
	return &fixture{
		svc:      NewService(repo, conflict.NewDetector(source), notifier, 30*time.Minute),
		repo:     repo,
		source:   source,
		notifier: notifier,
	}
}

func stay(d1, d2 int) (time.Time, time.Time) {
	return time.Date(2025, 7, d1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, d2, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) join(t *testing.T, roomID, userID string) *Entry {
	t.Helper()
	checkIn, checkOut := stay(10, 12)
	e, err := f.svc.Join(context.Background(), JoinRequest{
		RoomID: roomID, UserID: userID, CheckIn: checkIn, CheckOut: checkOut, GuestCount: 2,
	})
	require.NoError(t, err)
	return e
}

func TestJoinValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	checkIn, checkOut := stay(10, 12)

	_, err := f.svc.Join(ctx, JoinRequest{
		RoomID: "room-100", UserID: "user-a", CheckIn: checkIn, CheckOut: checkOut, GuestCount: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidGuestCount)

	_, err = f.svc.Join(ctx, JoinRequest{
		RoomID: "room-100", UserID: "user-a", CheckIn: checkOut, CheckOut: checkIn, GuestCount: 2,
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	// Zero-length stay is invalid too.
	_, err = f.svc.Join(ctx, JoinRequest{
		RoomID: "room-100", UserID: "user-a", CheckIn: checkIn, CheckOut: checkIn, GuestCount: 2,
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestJoinAppliesDefaultPriority(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	checkIn, checkOut := stay(10, 12)

	e, err := f.svc.Join(ctx, JoinRequest{
		RoomID: "room-100", UserID: "user-a", CheckIn: checkIn, CheckOut: checkOut, GuestCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultPriority, e.Priority)
	assert.Equal(t, StatusWaiting, e.Status)
	assert.NotEmpty(t, e.ID)

	vip, err := f.svc.Join(ctx, JoinRequest{
		RoomID: "room-100", UserID: "user-b", CheckIn: checkIn, CheckOut: checkOut, GuestCount: 2, Priority: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, vip.Priority)
}

func TestJoinRejectsDuplicateActiveEntry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	checkIn, checkOut := stay(10, 12)

	req := JoinRequest{
		RoomID: "room-100", UserID: "user-a", CheckIn: checkIn, CheckOut: checkOut, GuestCount: 2,
	}
	first, err := f.svc.Join(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Join(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	// Once withdrawn, the same stay may be requested again.
	require.NoError(t, f.svc.Leave(ctx, first.ID, "user-a"))
	_, err = f.svc.Join(ctx, req)
	assert.NoError(t, err)
}

func TestPositionFollowsJoinOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a")
	b := f.join(t, "room-100", "user-b")
	c := f.join(t, "room-100", "user-c")

	for i, e := range []*Entry{a, b, c} {
		pos, err := f.svc.Position(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, i, pos)
	}

	// Another room's queue does not interfere.
	other := f.join(t, "room-200", "user-d")
	pos, err := f.svc.Position(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	// A departing in front shifts everyone up.
	require.NoError(t, f.svc.Leave(ctx, a.ID, "user-a"))

	pos, err = f.svc.Position(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = f.svc.Position(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestPositionRanksLowerPriorityValueFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	checkIn, checkOut := stay(10, 12)

	regular := f.join(t, "room-100", "user-a")

	vip, err := f.svc.Join(ctx, JoinRequest{
		RoomID: "room-100", UserID: "user-b", CheckIn: checkIn, CheckOut: checkOut, GuestCount: 1, Priority: 10,
	})
	require.NoError(t, err)

	pos, err := f.svc.Position(ctx, vip.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos, "lower priority value ranks ahead despite joining later")

	pos, err = f.svc.Position(ctx, regular.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestPositionOfNotifiedEntryIsZero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a")
	f.join(t, "room-100", "user-b")

	require.NoError(t, f.svc.PromoteRoom(ctx, "room-100"))

	pos, err := f.svc.Position(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestLeaveRequiresOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a")

	err := f.svc.Leave(ctx, a.ID, "user-b")
	assert.ErrorIs(t, err, ErrNotOwner)

	err = f.svc.Leave(ctx, "entry-999", "user-a")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	require.NoError(t, f.svc.Leave(ctx, a.ID, "user-a"))

	// The tombstoned entry is gone from reads.
	_, err = f.svc.Position(ctx, a.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestLeaveNotifiedEntryCascadesPromotion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a")
	b := f.join(t, "room-100", "user-b")

	require.NoError(t, f.svc.PromoteRoom(ctx, "room-100"))
	require.Len(t, f.notifier.sent(), 1)
	assert.Equal(t, a.ID, f.notifier.sent()[0].EntryID)

	// The notified guest walks away; their slot passes straight to B.
	require.NoError(t, f.svc.Leave(ctx, a.ID, "user-a"))

	notices := f.notifier.sent()
	require.Len(t, notices, 2)
	assert.Equal(t, b.ID, notices[1].EntryID)

	got, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNotified, got.Status)
	require.NotNil(t, got.ExpiresAt)
}

func TestPromoteRoomNotifiesHighestRanked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a")
	b := f.join(t, "room-100", "user-b")

	require.NoError(t, f.svc.PromoteRoom(ctx, "room-100"))

	got, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNotified, got.Status)
	require.NotNil(t, got.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), *got.ExpiresAt, 5*time.Second)

	// One promotion per freed slot: B stays waiting.
	got, err = f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, got.Status)
	assert.Nil(t, got.ExpiresAt)

	require.Len(t, f.notifier.sent(), 1)
}

func TestPromoteRoomSkipsConflictingCandidates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a") // Jul 10-12
	checkIn, checkOut := stay(13, 15)
	b, err := f.svc.Join(ctx, JoinRequest{
		RoomID: "room-100", UserID: "user-b", CheckIn: checkIn, CheckOut: checkOut, GuestCount: 1,
	})
	require.NoError(t, err)

	// A booking landed on Jul 11-13 while they waited: A's window is taken
	// again, B's back-to-back window (check-in on the checkout day) is free.
	in, out := stay(11, 13)
	f.source.book("room-100", in, out)

	require.NoError(t, f.svc.PromoteRoom(ctx, "room-100"))

	got, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, got.Status)

	got, err = f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNotified, got.Status)
}

func TestPromoteRoomNoCandidates(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.PromoteRoom(context.Background(), "room-100"))
	assert.Empty(t, f.notifier.sent())
}

func TestPromoteRoomNotifierFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("broker unreachable")
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a")

	require.NoError(t, f.svc.PromoteRoom(ctx, "room-100"))

	// The state change sticks even though delivery failed.
	got, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNotified, got.Status)
}

func TestConfirm(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a")
	require.NoError(t, f.svc.PromoteRoom(ctx, "room-100"))

	confirmed, err := f.svc.Confirm(ctx, a.ID, "order-42")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedOrderID)
	assert.Equal(t, "order-42", *confirmed.ConfirmedOrderID)
	assert.Nil(t, confirmed.ExpiresAt, "deadline clears on confirmation")

	// Confirming twice, or confirming an entry never notified, is rejected.
	_, err = f.svc.Confirm(ctx, a.ID, "order-43")
	assert.ErrorIs(t, err, ErrNotConfirmable)

	b := f.join(t, "room-100", "user-b")
	_, err = f.svc.Confirm(ctx, b.ID, "order-44")
	assert.ErrorIs(t, err, ErrNotConfirmable)

	_, err = f.svc.Confirm(ctx, "entry-999", "order-45")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestSweepExpired(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a")
	b := f.join(t, "room-100", "user-b")

	require.NoError(t, f.svc.PromoteRoom(ctx, "room-100"))

	// Backdate A's deadline so the sweeper sees it as overdue.
	past := time.Now().UTC().Add(-time.Minute)
	f.repo.setStatus(a.ID, StatusNotified, &past)

	swept, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	got, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.Status)
	assert.Nil(t, got.ExpiresAt, "deadline clears on expiry")

	// The freed slot cascades to B.
	got, err = f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNotified, got.Status)

	// An expired entry cannot be confirmed.
	_, err = f.svc.Confirm(ctx, a.ID, "order-42")
	assert.ErrorIs(t, err, ErrNotConfirmable)

	// Nothing left overdue: the next pass is a no-op.
	swept, err = f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
}

func TestSweepLosesRaceToConfirm(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.join(t, "room-100", "user-a")
	require.NoError(t, f.svc.PromoteRoom(ctx, "room-100"))

	past := time.Now().UTC().Add(-time.Minute)
	f.repo.setStatus(a.ID, StatusNotified, &past)

	// The guest confirms just before the sweep writes: the conditional expire
	// must not clobber the confirmation.
	_, err := f.svc.Confirm(ctx, a.ID, "order-42")
	require.NoError(t, err)

	swept, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, swept)

	got, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
}
