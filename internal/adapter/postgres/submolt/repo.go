// Package submolt implements the Submolt repository using PostgreSQL.
package submolt

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

var columns = []string{"id", "name", "display_name", "description", "created_at"}

// Repo provides submolt persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new submolt repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new submolt and returns the persisted row.
func (r *Repo) Create(ctx context.Context, s *domain.Submolt) (*domain.Submolt, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("submolts").
		Columns("id", "name", "display_name", "description", "created_at").
		Values(s.ID, s.Name, s.DisplayName, s.Description, s.CreatedAt).
		Suffix("RETURNING id, name, display_name, description, created_at").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "submolt", s.ID)
	}

	created, err := scanSubmolt(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "submolt", s.ID)
	}
	return created, nil
}

// GetByID returns a submolt by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submolt, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("submolts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "submolt", id)
	}

	s, err := scanSubmolt(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "submolt", id)
	}
	return s, nil
}

// GetByName returns a submolt by its unique name.
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Submolt, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("submolts").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "submolt", uuid.Nil)
	}

	s, err := scanSubmolt(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "submolt", uuid.Nil)
	}
	return s, nil
}

// List returns all submolts in name order.
func (r *Repo) List(ctx context.Context) ([]domain.Submolt, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("submolts").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "submolt", uuid.Nil)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "submolt", uuid.Nil)
	}
	defer rows.Close()

	var submolts []domain.Submolt
	for rows.Next() {
		s, err := scanSubmolt(rows)
		if err != nil {
			return nil, postgres.MapError(err, "submolt", uuid.Nil)
		}
		submolts = append(submolts, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "submolt", uuid.Nil)
	}
	return submolts, nil
}

func scanSubmolt(row pgx.Row) (*domain.Submolt, error) {
	var s domain.Submolt
	err := row.Scan(&s.ID, &s.Name, &s.DisplayName, &s.Description, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
