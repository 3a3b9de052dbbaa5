package hotel

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
	Create(ctx context.Context, h *Hotel) error
	GetByID(ctx context.Context, id string) (*Hotel, error)
	List(ctx context.Context, filter Filter) ([]*Hotel, int, error)
	Update(ctx context.Context, h *Hotel) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, h *Hotel) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.hotels").
		Columns("name", "address", "timezone").
		Values(h.Name, h.Address, h.Timezone).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create hotel query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateName
		}
		return fmt.Errorf("create hotel failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Hotel, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "address", "timezone", "created_at", "updated_at").
		From("public.hotels").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get hotel query failed: %w", err)
	}

	var h Hotel
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&h.ID, &h.Name, &h.Address, &h.Timezone, &h.CreatedAt, &h.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get hotel failed: %w", err)
	}
	return &h, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Hotel, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "address", "timezone", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.hotels")

	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
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
		return nil, 0, fmt.Errorf("build list hotels query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list hotels failed: %w", err)
	}
	defer rows.Close()

	var hotels []*Hotel
	var total int

	for rows.Next() {
		var h Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.Timezone, &h.CreatedAt, &h.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan hotel failed: %w", err)
		}
		hotels = append(hotels, &h)
	}

	return hotels, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, h *Hotel) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.hotels").
		Set("name", h.Name).
		Set("address", h.Address).
		Set("timezone", h.Timezone).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": h.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update hotel query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update hotel failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.hotels").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete hotel query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete hotel failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
