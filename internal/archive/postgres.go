package archive

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/step1ne/enrich-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the archive needs; pgxmock satisfies
// it for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects a pool to connString.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS results (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	company    TEXT NOT NULL,
	success    BOOLEAN NOT NULL,
	record     JSONB,
	quality    DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshot_cache (
	id         TEXT PRIMARY KEY,
	url        TEXT NOT NULL,
	content    TEXT NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_position ON results(position);
CREATE INDEX IF NOT EXISTS idx_results_success ON results(success);
CREATE INDEX IF NOT EXISTS idx_snapshot_cache_url ON snapshot_cache(url);
CREATE INDEX IF NOT EXISTS idx_snapshot_cache_expires_at ON snapshot_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveResult(ctx context.Context, r Result) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	var recordJSON []byte
	if r.Record != nil {
		data, err := json.Marshal(r.Record)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal record")
		}
		recordJSON = data
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO results (id, position, company, success, record, quality, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.Position, r.Company, r.Success, recordJSON, r.Quality, r.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert result")
}

func (s *PostgresStore) ListFailed(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, position, company, success, record, quality, created_at
		 FROM results WHERE NOT success ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list failed")
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r          Result
			recordJSON []byte
		)
		if err := rows.Scan(&r.ID, &r.Position, &r.Company, &r.Success, &recordJSON, &r.Quality, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan result")
		}
		if len(recordJSON) > 0 {
			var rec model.ContactRecord
			if err := json.Unmarshal(recordJSON, &rec); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal record")
			}
			r.Record = &rec
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "postgres: iterate failed results")
}

func (s *PostgresStore) GetCachedSnapshot(ctx context.Context, url string) (string, bool, error) {
	var content string
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM snapshot_cache
		 WHERE url = $1 AND expires_at > now() ORDER BY fetched_at DESC LIMIT 1`,
		url,
	).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "postgres: get cached snapshot")
	}
	return content, true, nil
}

func (s *PostgresStore) PutSnapshot(ctx context.Context, url, content string, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO snapshot_cache (id, url, content, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), url, content, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: put snapshot")
}

func (s *PostgresStore) DeleteExpiredSnapshots(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM snapshot_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired snapshots")
	}
	return int(tag.RowsAffected()), nil
}
