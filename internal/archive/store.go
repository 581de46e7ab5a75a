// Package archive keeps a durable history of per-item results and a
// TTL-bounded snapshot cache, so a re-run can skip fetches it already paid
// for. The archive is optional: the pipeline runs fine without one.
package archive

import (
	"context"
	"time"

	"github.com/step1ne/enrich-cli/internal/model"
)

// Result is one archived item outcome.
type Result struct {
	ID        string               `json:"id"`
	Position  int                  `json:"position"`
	Company   string               `json:"company"`
	Success   bool                 `json:"success"`
	Record    *model.ContactRecord `json:"record,omitempty"`
	Quality   float64              `json:"quality"`
	CreatedAt time.Time            `json:"created_at"`
}

// Store is the archive persistence contract, implemented for SQLite and
// Postgres.
type Store interface {
	Migrate(ctx context.Context) error

	SaveResult(ctx context.Context, r Result) error
	ListFailed(ctx context.Context, limit int) ([]Result, error)

	// Snapshot cache.
	GetCachedSnapshot(ctx context.Context, url string) (string, bool, error)
	PutSnapshot(ctx context.Context, url, content string, ttl time.Duration) error
	DeleteExpiredSnapshots(ctx context.Context) (int, error)

	Close() error
}
