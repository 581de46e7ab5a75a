package snapshot

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/step1ne/enrich-cli/internal/resilience"
)

// FetcherConfig controls the retry wrapper around a Snapshotter.
type FetcherConfig struct {
	// Retries is the total number of attempts per item. Default: 3.
	Retries int

	// RetryDelay is the fixed pause between failed attempts. Default: 5s.
	RetryDelay time.Duration

	// MinContentBytes rejects suspiciously short payloads; a near-empty
	// snapshot usually means a blocked or half-loaded page, not a
	// genuinely empty one. Default: 100.
	MinContentBytes int
}

// Fetcher wraps a Snapshotter with a bounded retry loop. A miss is an
// expected per-item outcome, not an exception: Fetch reports ok=false only
// after every attempt failed.
type Fetcher struct {
	snap Snapshotter
	cfg  FetcherConfig
}

// NewFetcher creates a retrying fetcher over snap.
func NewFetcher(snap Snapshotter, cfg FetcherConfig) *Fetcher {
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	if cfg.MinContentBytes <= 0 {
		cfg.MinContentBytes = 100
	}
	return &Fetcher{snap: snap, cfg: cfg}
}

// Fetch obtains a snapshot of url, retrying transient failures up to the
// configured attempt count with a fixed delay in between.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, bool) {
	text, err := resilience.DoVal(ctx, resilience.RetryConfig{
		MaxAttempts: f.cfg.Retries,
		Delay:       f.cfg.RetryDelay,
		OnRetry:     resilience.RetryLogger("fetch snapshot"),
	}, func(ctx context.Context) (string, error) {
		text, err := f.snap.Snapshot(ctx, url)
		if err != nil {
			return "", err
		}
		if len(text) < f.cfg.MinContentBytes {
			return "", resilience.NewTransientError(
				eris.Errorf("snapshot too short: %d bytes", len(text)))
		}
		return text, nil
	})
	if err != nil {
		zap.L().Warn("fetch failed after all attempts",
			zap.String("url", url),
			zap.Int("attempts", f.cfg.Retries),
			zap.Error(err),
		)
		return "", false
	}
	return text, true
}

// Close releases the underlying snapshotter.
func (f *Fetcher) Close() error {
	return f.snap.Close()
}
