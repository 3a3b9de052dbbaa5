package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type stubWindowSource struct {
	windows []Window
	err     error
}

func (s *stubWindowSource) ActiveWindows(_ context.Context, roomID string) ([]Window, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []Window
	for _, w := range s.windows {
		if w.RoomID == roomID {
			out = append(out, w)
		}
	}
	return out, nil
}

func TestOverlaps(t *testing.T) {
	jan := func(d int) time.Time { return date(2026, time.January, d) }

	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical ranges", jan(10), jan(12), jan(10), jan(12), true},
		{"partial overlap at end", jan(10), jan(12), jan(11), jan(13), true},
		{"partial overlap at start", jan(11), jan(13), jan(10), jan(12), true},
		{"containment", jan(10), jan(20), jan(12), jan(14), true},
		{"single shared night", jan(10), jan(12), jan(11), jan(12), true},
		{"back-to-back checkout then check-in", jan(10), jan(12), jan(12), jan(14), false},
		{"back-to-back reversed", jan(12), jan(14), jan(10), jan(12), false},
		{"fully disjoint", jan(1), jan(3), jan(10), jan(12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestDetectorRejectsInvalidRange(t *testing.T) {
	d := NewDetector(&stubWindowSource{})

	_, err := d.Detect(context.Background(), Window{
		RoomID:   "room-100",
		CheckIn:  date(2026, time.January, 12),
		CheckOut: date(2026, time.January, 10),
	}, "")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	// Zero-length stays are invalid too.
	_, err = d.Detect(context.Background(), Window{
		RoomID:   "room-100",
		CheckIn:  date(2026, time.January, 10),
		CheckOut: date(2026, time.January, 10),
	}, "")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestDetectorFindsOverlap(t *testing.T) {
	source := &stubWindowSource{
		windows: []Window{
			{
				RoomID:   "room-100",
				OrderID:  "order-1",
				CheckIn:  date(2026, time.January, 10),
				CheckOut: date(2026, time.January, 12),
			},
		},
	}
	d := NewDetector(source)

	// Jan 11-13 overlaps the existing Jan 10-12 booking.
	result, err := d.Detect(context.Background(), Window{
		RoomID:   "room-100",
		CheckIn:  date(2026, time.January, 11),
		CheckOut: date(2026, time.January, 13),
	}, "")
	require.NoError(t, err)
	assert.True(t, result.HasConflict)
	require.Len(t, result.Conflicting, 1)
	assert.Equal(t, "order-1", result.Conflicting[0].OrderID)

	// Jan 12-14 starts the day the guest leaves: free.
	result, err = d.Detect(context.Background(), Window{
		RoomID:   "room-100",
		CheckIn:  date(2026, time.January, 12),
		CheckOut: date(2026, time.January, 14),
	}, "")
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
	assert.Empty(t, result.Conflicting)
}

func TestDetectorIgnoresOtherRooms(t *testing.T) {
	source := &stubWindowSource{
		windows: []Window{
			{
				RoomID:   "room-200",
				OrderID:  "order-9",
				CheckIn:  date(2026, time.January, 10),
				CheckOut: date(2026, time.January, 12),
			},
		},
	}
	d := NewDetector(source)

	result, err := d.Detect(context.Background(), Window{
		RoomID:   "room-100",
		CheckIn:  date(2026, time.January, 10),
		CheckOut: date(2026, time.January, 12),
	}, "")
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
}

func TestDetectorExcludesOrder(t *testing.T) {
	source := &stubWindowSource{
		windows: []Window{
			{
				RoomID:   "room-100",
				OrderID:  "order-1",
				CheckIn:  date(2026, time.January, 10),
				CheckOut: date(2026, time.January, 12),
			},
		},
	}
	d := NewDetector(source)

	// Rechecking order-1's own window against everything but itself.
	result, err := d.Detect(context.Background(), Window{
		RoomID:   "room-100",
		CheckIn:  date(2026, time.January, 10),
		CheckOut: date(2026, time.January, 12),
	}, "order-1")
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
}

func TestDetectorPropagatesSourceError(t *testing.T) {
	srcErr := errors.New("order store down")
	d := NewDetector(&stubWindowSource{err: srcErr})

	_, err := d.Detect(context.Background(), Window{
		RoomID:   "room-100",
		CheckIn:  date(2026, time.January, 10),
		CheckOut: date(2026, time.January, 12),
	}, "")
	assert.ErrorIs(t, err, srcErr)
}
