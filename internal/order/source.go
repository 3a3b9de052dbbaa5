// Package order adapts the external order subsystem for the reservation
// engine. The engine only reads active reservation windows from it; order
// creation and payment live elsewhere.
package order

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linyuhan/hotel-ops-backend/internal/conflict"
)

// Orders in these states still hold their room for the booked dates.
var activeStates = []string{"pending", "confirmed", "checked_in"}

type pgxWindowSource struct {
	pool *pgxpool.Pool
}

// NewPgxWindowSource returns a conflict.WindowSource reading the order
// subsystem's table. Read-only: the engine never writes orders.
func NewPgxWindowSource(pool *pgxpool.Pool) conflict.WindowSource {
	return &pgxWindowSource{pool: pool}
}

func (s *pgxWindowSource) ActiveWindows(ctx context.Context, roomID string) ([]conflict.Window, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "room_id", "user_id", "check_in", "check_out", "guest_count").
		From("public.orders").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Eq{"status": activeStates}).
		OrderBy("check_in ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active windows query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active windows failed: %w", err)
	}
	defer rows.Close()

	var windows []conflict.Window
	for rows.Next() {
		var w conflict.Window
		if err := rows.Scan(&w.OrderID, &w.RoomID, &w.RequesterID, &w.CheckIn, &w.CheckOut, &w.GuestCount); err != nil {
			return nil, fmt.Errorf("scan active window failed: %w", err)
		}
		windows = append(windows, w)
	}

	return windows, nil
}
