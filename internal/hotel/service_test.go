package hotel

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memHotelRepo struct {
	hotels map[string]*Hotel
	seq    int
}

func newMemHotelRepo() *memHotelRepo {
	return &memHotelRepo{hotels: make(map[string]*Hotel)}
}

func (r *memHotelRepo) Create(_ context.Context, h *Hotel) error {
	for _, existing := range r.hotels {
		if existing.Name == h.Name {
			return ErrDuplicateName
		}
	}
	r.seq++
	h.ID = fmt.Sprintf("hotel-%03d", r.seq)
	clone := *h
	r.hotels[h.ID] = &clone
	return nil
}

func (r *memHotelRepo) GetByID(_ context.Context, id string) (*Hotel, error) {
	h, ok := r.hotels[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *h
	return &clone, nil
}

func (r *memHotelRepo) List(_ context.Context, filter Filter) ([]*Hotel, int, error) {
	var out []*Hotel
	for _, h := range r.hotels {
		if filter.Name != "" && !strings.Contains(strings.ToLower(h.Name), strings.ToLower(filter.Name)) {
			continue
		}
		clone := *h
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *memHotelRepo) Update(_ context.Context, h *Hotel) error {
	if _, ok := r.hotels[h.ID]; !ok {
		return ErrNotFound
	}
	clone := *h
	r.hotels[h.ID] = &clone
	return nil
}

func (r *memHotelRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.hotels[id]; !ok {
		return ErrNotFound
	}
	delete(r.hotels, id)
	return nil
}

func TestCreateHotel(t *testing.T) {
	svc := NewService(newMemHotelRepo())
	ctx := context.Background()

	h, err := svc.Create(ctx, CreateRequest{Name: "  Grand Plaza  ", Address: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, "Grand Plaza", h.Name)
	assert.Equal(t, "UTC", h.Timezone, "timezone defaults to UTC")
	assert.NotEmpty(t, h.ID)

	_, err = svc.Create(ctx, CreateRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(ctx, CreateRequest{Name: "Grand Plaza"})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestUpdateHotel(t *testing.T) {
	svc := NewService(newMemHotelRepo())
	ctx := context.Background()

	h, err := svc.Create(ctx, CreateRequest{Name: "Grand Plaza", Timezone: "Asia/Taipei"})
	require.NoError(t, err)

	newName := "Grand Plaza Riverside"
	updated, err := svc.Update(ctx, h.ID, UpdateRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, "Asia/Taipei", updated.Timezone, "untouched fields keep their values")

	blank := " "
	_, err = svc.Update(ctx, h.ID, UpdateRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Update(ctx, "hotel-999", UpdateRequest{Name: &newName})
	assert.ErrorIs(t, err, ErrNotFound)
}
