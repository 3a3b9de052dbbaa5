package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, rm *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, rm *Room) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, rm *Room) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.rooms").
		Columns("hotel_id", "number", "floor", "capacity").
		Values(rm.HotelID, rm.Number, rm.Floor, rm.Capacity).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create room query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rm.ID, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return ErrDuplicateNumber
			case pgerrcode.ForeignKeyViolation:
				return ErrHotelNotFound
			}
		}
		return fmt.Errorf("create room failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Room, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"r.id", "r.hotel_id", "h.name", "r.number", "r.floor", "r.capacity", "r.created_at", "r.updated_at",
	).
		From("public.rooms r").
		Join("public.hotels h ON r.hotel_id = h.id").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get room query failed: %w", err)
	}

	var rm Room
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&rm.ID, &rm.HotelID, &rm.HotelName, &rm.Number, &rm.Floor, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room failed: %w", err)
	}
	return &rm, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"r.id", "r.hotel_id", "h.name", "r.number", "r.floor", "r.capacity", "r.created_at", "r.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.rooms r").
		Join("public.hotels h ON r.hotel_id = h.id")

	if filter.HotelID != "" {
		query = query.Where(squirrel.Eq{"r.hotel_id": filter.HotelID})
	}

	query = query.OrderBy("r.number ASC")

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
		return nil, 0, fmt.Errorf("build list rooms query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	var total int

	for rows.Next() {
		var rm Room
		if err := rows.Scan(
			&rm.ID, &rm.HotelID, &rm.HotelName, &rm.Number, &rm.Floor, &rm.Capacity,
			&rm.CreatedAt, &rm.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan room failed: %w", err)
		}
		rooms = append(rooms, &rm)
	}

	return rooms, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, rm *Room) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.rooms").
		Set("number", rm.Number).
		Set("floor", rm.Floor).
		Set("capacity", rm.Capacity).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rm.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update room query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateNumber
		}
		return fmt.Errorf("update room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete room query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
