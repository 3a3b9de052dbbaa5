package roomstatus

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Init seeds the status row for a new room (available, version 0).
	// Idempotent: an existing row is left untouched.
	Init(ctx context.Context, roomID string) error

	Get(ctx context.Context, roomID string) (*RoomStatus, error)
	GetMany(ctx context.Context, roomIDs []string) ([]*RoomStatus, error)

	// Transition performs the compare-and-swap write: the row is updated and
	// a log entry appended only if the stored version equals expectedVersion,
	// all in one transaction. The returned State is the pre-write state,
	// captured atomically with the update. Returns ErrVersionMismatch when
	// the gate fails and ErrRoomNotFound when the room has no status row.
	Transition(ctx context.Context, roomID string, to State, reason, actorID string, linkedOrderID *string, expectedVersion int64) (*RoomStatus, State, error)

	History(ctx context.Context, roomID string, filter HistoryFilter) ([]*LogEntry, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Init(ctx context.Context, roomID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.room_statuses").
		Columns("room_id", "state", "version").
		Values(roomID, StateAvailable, 0).
		Suffix("ON CONFLICT (room_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build init room status query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("init room status failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Get(ctx context.Context, roomID string) (*RoomStatus, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("room_id", "state", "version", "linked_order_id", "updated_at").
		From("public.room_statuses").
		Where(squirrel.Eq{"room_id": roomID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get room status query failed: %w", err)
	}

	var rs RoomStatus
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&rs.RoomID, &rs.State, &rs.Version, &rs.LinkedOrderID, &rs.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room status failed: %w", err)
	}
	return &rs, nil
}

func (r *pgxRepository) GetMany(ctx context.Context, roomIDs []string) ([]*RoomStatus, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("room_id", "state", "version", "linked_order_id", "updated_at").
		From("public.room_statuses").
		Where(squirrel.Eq{"room_id": roomIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get room statuses query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get room statuses failed: %w", err)
	}
	defer rows.Close()

	var statuses []*RoomStatus
	for rows.Next() {
		var rs RoomStatus
		if err := rows.Scan(&rs.RoomID, &rs.State, &rs.Version, &rs.LinkedOrderID, &rs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan room status failed: %w", err)
		}
		statuses = append(statuses, &rs)
	}
	return statuses, nil
}

// casTransitionSQL is the optimistic-concurrency gate. The CTE locks the row
// and captures the pre-write state so the audit entry records the true
// from-state even under contention. The UPDATE only matches when the stored
// version still equals the caller's expected version.
const casTransitionSQL = `
WITH prev AS (
	SELECT state FROM public.room_statuses
	WHERE room_id = $1 AND version = $2
	FOR UPDATE
)
UPDATE public.room_statuses rs
SET state = $3, version = rs.version + 1, linked_order_id = $4, updated_at = now()
FROM prev
WHERE rs.room_id = $1 AND rs.version = $2
RETURNING prev.state, rs.version, rs.updated_at
`

func (r *pgxRepository) Transition(ctx context.Context, roomID string, to State, reason, actorID string, linkedOrderID *string, expectedVersion int64) (*RoomStatus, State, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("begin transition tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	rs := &RoomStatus{
		RoomID:        roomID,
		State:         to,
		LinkedOrderID: linkedOrderID,
	}

	var fromState State
	err = tx.QueryRow(ctx, casTransitionSQL, roomID, expectedVersion, to, linkedOrderID).
		Scan(&fromState, &rs.Version, &rs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a stale version from a missing room.
			var exists bool
			checkErr := r.pool.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM public.room_statuses WHERE room_id = $1)", roomID,
			).Scan(&exists)
			if checkErr != nil {
				return nil, "", fmt.Errorf("check room status exists failed: %w", checkErr)
			}
			if !exists {
				return nil, "", ErrRoomNotFound
			}
			return nil, "", ErrVersionMismatch
		}
		return nil, "", fmt.Errorf("transition room status failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.room_status_logs").
		Columns("room_id", "from_state", "to_state", "reason", "actor_id", "linked_order_id").
		Values(roomID, fromState, to, reason, actorID, linkedOrderID).
		ToSql()
	if err != nil {
		return nil, "", fmt.Errorf("build append status log query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, "", fmt.Errorf("append status log failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", fmt.Errorf("commit transition tx failed: %w", err)
	}

	return rs, fromState, nil
}

func (r *pgxRepository) History(ctx context.Context, roomID string, filter HistoryFilter) ([]*LogEntry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "room_id", "from_state", "to_state", "reason", "actor_id", "linked_order_id", "created_at",
	).
		From("public.room_status_logs").
		Where(squirrel.Eq{"room_id": roomID})

	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"created_at": filter.To})
	}

	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 50
	}
	query = query.OrderBy("created_at DESC").Limit(uint64(limit))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status history query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list status history failed: %w", err)
	}
	defer rows.Close()

	var entries []*LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(
			&e.ID, &e.RoomID, &e.FromState, &e.ToState, &e.Reason, &e.ActorID, &e.LinkedOrderID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan status log entry failed: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}
