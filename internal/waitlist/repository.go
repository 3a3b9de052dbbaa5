package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists waitlist entries. All conditional updates are
// compare-and-set at the storage layer: they match on the current status (and
// expiry where relevant) so racing writers cannot both win.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id string) (*Entry, error)

	// CountAhead counts waiting entries for the same room ranked before the
	// given entry (priority asc, created_at asc, id asc).
	CountAhead(ctx context.Context, e *Entry) (int, error)

	// ListWaiting returns promotion candidates for a room in rank order.
	ListWaiting(ctx context.Context, roomID string, limit int) ([]*Entry, error)

	// Withdraw tombstones a waiting or notified entry and returns its prior
	// status. False when the entry was not withdrawable.
	Withdraw(ctx context.Context, id string) (EntryStatus, bool, error)

	// MarkNotified moves waiting -> notified with the given deadline.
	MarkNotified(ctx context.Context, id string, expiresAt time.Time) (bool, error)

	// Confirm moves notified -> confirmed and records the order.
	Confirm(ctx context.Context, id string, orderID string) (bool, error)

	// ListExpired returns notified entries whose deadline has passed.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*Entry, error)

	// Expire moves notified -> expired, only if still past due at write time.
	Expire(ctx context.Context, id string, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const entryColumns = "id, room_id, user_id, check_in, check_out, guest_count, priority, status, confirmed_order_id, expires_at, created_at, deleted"

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID, &e.RoomID, &e.UserID, &e.CheckIn, &e.CheckOut, &e.GuestCount,
		&e.Priority, &e.Status, &e.ConfirmedOrderID, &e.ExpiresAt, &e.CreatedAt, &e.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *pgxRepository) Create(ctx context.Context, e *Entry) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.waitlist_entries").
		Columns("room_id", "user_id", "check_in", "check_out", "guest_count", "priority", "status").
		Values(e.RoomID, e.UserID, e.CheckIn, e.CheckOut, e.GuestCount, e.Priority, e.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create waitlist entry query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		// The partial unique index on active entries rejects a second
		// waiting/notified entry for the same (room, user, stay).
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("create waitlist entry failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Entry, error) {
	query := "SELECT " + entryColumns + " FROM public.waitlist_entries WHERE id = $1 AND deleted = FALSE"

	e, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get waitlist entry failed: %w", err)
	}
	return e, nil
}

func (r *pgxRepository) CountAhead(ctx context.Context, e *Entry) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.waitlist_entries").
		Where(squirrel.Eq{"room_id": e.RoomID, "status": StatusWaiting, "deleted": false}).
		Where(squirrel.NotEq{"id": e.ID}).
		Where(squirrel.Or{
			squirrel.Lt{"priority": e.Priority},
			squirrel.And{
				squirrel.Eq{"priority": e.Priority},
				squirrel.Lt{"created_at": e.CreatedAt},
			},
			squirrel.And{
				squirrel.Eq{"priority": e.Priority},
				squirrel.Eq{"created_at": e.CreatedAt},
				squirrel.Lt{"id": e.ID},
			},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count ahead query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ahead failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) ListWaiting(ctx context.Context, roomID string, limit int) ([]*Entry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(entryColumns).
		From("public.waitlist_entries").
		Where(squirrel.Eq{"room_id": roomID, "status": StatusWaiting, "deleted": false}).
		OrderBy("priority ASC", "created_at ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list waiting query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list waiting entries failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waitlist entry failed: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// withdrawSQL tombstones the entry and reports the status it held. A waiting
// entry also becomes cancelled; a notified one keeps its status so the state
// machine stays forward-only.
const withdrawSQL = `
WITH prev AS (
	SELECT status FROM public.waitlist_entries
	WHERE id = $1 AND deleted = FALSE AND status IN ('waiting', 'notified')
	FOR UPDATE
)
UPDATE public.waitlist_entries we
SET deleted = TRUE,
    status = CASE WHEN we.status = 'waiting' THEN 'cancelled' ELSE we.status END
FROM prev
WHERE we.id = $1
RETURNING prev.status
`

func (r *pgxRepository) Withdraw(ctx context.Context, id string) (EntryStatus, bool, error) {
	var prior EntryStatus
	if err := r.pool.QueryRow(ctx, withdrawSQL, id).Scan(&prior); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("withdraw waitlist entry failed: %w", err)
	}
	return prior, true, nil
}

func (r *pgxRepository) MarkNotified(ctx context.Context, id string, expiresAt time.Time) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.waitlist_entries").
		Set("status", StatusNotified).
		Set("expires_at", expiresAt).
		Where(squirrel.Eq{"id": id, "status": StatusWaiting, "deleted": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build mark notified query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark notified failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) Confirm(ctx context.Context, id string, orderID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.waitlist_entries").
		Set("status", StatusConfirmed).
		Set("confirmed_order_id", orderID).
		Set("expires_at", nil).
		Where(squirrel.Eq{"id": id, "status": StatusNotified, "deleted": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build confirm query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("confirm waitlist entry failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*Entry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(entryColumns).
		From("public.waitlist_entries").
		Where(squirrel.Eq{"status": StatusNotified, "deleted": false}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		OrderBy("expires_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list expired query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expired entries failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expired entry failed: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *pgxRepository) Expire(ctx context.Context, id string, now time.Time) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.waitlist_entries").
		Set("status", StatusExpired).
		Set("expires_at", nil).
		Where(squirrel.Eq{"id": id, "status": StatusNotified, "deleted": false}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build expire query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("expire waitlist entry failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
