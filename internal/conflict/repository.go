package conflict

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter Filter) ([]*Record, int, error)

	// Moderate flips a record from detected to the given terminal status.
	// Conditional on the record still being detected, so two moderators
	// cannot both claim it.
	Moderate(ctx context.Context, id string, status RecordStatus) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, rec *Record) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.conflict_records").
		Columns("room_id", "user_id", "requested_check_in", "requested_check_out", "conflict_type", "status").
		Values(rec.RoomID, rec.UserID, rec.RequestedCheckIn, rec.RequestedCheckOut, rec.Type, rec.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create conflict record query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "room_id", "user_id", "requested_check_in", "requested_check_out",
		"conflict_type", "status", "created_at",
	).
		From("public.conflict_records").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get conflict record query failed: %w", err)
	}

	var rec Record
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&rec.ID, &rec.RoomID, &rec.UserID, &rec.RequestedCheckIn, &rec.RequestedCheckOut,
		&rec.Type, &rec.Status, &rec.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get conflict record failed: %w", err)
	}
	return &rec, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Record, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "room_id", "user_id", "requested_check_in", "requested_check_out",
		"conflict_type", "status", "created_at",
		"count(*) OVER() as total_count",
	).
		From("public.conflict_records")

	if filter.RoomID != "" {
		query = query.Where(squirrel.Eq{"room_id": filter.RoomID})
	}
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	query = query.OrderBy("created_at DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list conflict records query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list conflict records failed: %w", err)
	}
	defer rows.Close()

	var records []*Record
	var total int

	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.RoomID, &rec.UserID, &rec.RequestedCheckIn, &rec.RequestedCheckOut,
			&rec.Type, &rec.Status, &rec.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan conflict record failed: %w", err)
		}
		records = append(records, &rec)
	}

	return records, total, nil
}

func (r *pgxRepository) Moderate(ctx context.Context, id string, status RecordStatus) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.conflict_records").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": StatusDetected}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build moderate conflict record query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("moderate conflict record failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
