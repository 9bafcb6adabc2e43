// Package setting implements the site-settings repository using PostgreSQL.
package setting

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/moltar-social/moltar-backend/internal/adapter/postgres"
	"github.com/moltar-social/moltar-backend/internal/domain"
)

var columns = []string{"id", "key", "value", "updated_at"}

// Repo provides site-settings persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new settings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the setting for a key.
func (r *Repo) Get(ctx context.Context, key string) (*domain.SiteSetting, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("site_settings").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "setting", uuid.Nil)
	}

	var s domain.SiteSetting
	if err := q.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Key, &s.Value, &s.UpdatedAt); err != nil {
		return nil, postgres.MapError(err, "setting", uuid.Nil)
	}
	return &s, nil
}

// Upsert writes a key/value pair, replacing any existing value for the key.
func (r *Repo) Upsert(ctx context.Context, s *domain.SiteSetting) (*domain.SiteSetting, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("site_settings").
		Columns("id", "key", "value", "updated_at").
		Values(s.ID, s.Key, s.Value, s.UpdatedAt).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		Suffix("RETURNING id, key, value, updated_at").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "setting", s.ID)
	}

	var out domain.SiteSetting
	if err := q.QueryRow(ctx, sql, args...).Scan(&out.ID, &out.Key, &out.Value, &out.UpdatedAt); err != nil {
		return nil, postgres.MapError(err, "setting", s.ID)
	}
	return &out, nil
}

// All returns every setting in key order.
func (r *Repo) All(ctx context.Context) ([]domain.SiteSetting, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From("site_settings").
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "setting", uuid.Nil)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "setting", uuid.Nil)
	}
	defer rows.Close()

	var settings []domain.SiteSetting
	for rows.Next() {
		var s domain.SiteSetting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, postgres.MapError(err, "setting", uuid.Nil)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "setting", uuid.Nil)
	}
	return settings, nil
}
