package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/step1ne/enrich-cli/internal/resilience"
)

type fakeSnapshotter struct {
	calls   int
	results []func() (string, error)
	closed  bool
}

func (f *fakeSnapshotter) Snapshot(ctx context.Context, url string) (string, error) {
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i]()
}

func (f *fakeSnapshotter) Close() error {
	f.closed = true
	return nil
}

func longPage() (string, error) {
	return strings.Repeat("公司資訊 ", 50), nil
}

func TestFetch_Success(t *testing.T) {
	snap := &fakeSnapshotter{results: []func() (string, error){longPage}}
	f := NewFetcher(snap, FetcherConfig{Retries: 3, RetryDelay: time.Millisecond})

	text, ok := f.Fetch(context.Background(), "https://example.com")
	if !ok {
		t.Fatal("expected ok")
	}
	if len(text) < 100 {
		t.Errorf("unexpectedly short text: %d bytes", len(text))
	}
	if snap.calls != 1 {
		t.Errorf("expected 1 call, got %d", snap.calls)
	}
}

func TestFetch_ShortPayloadRetriedThenSucceeds(t *testing.T) {
	snap := &fakeSnapshotter{results: []func() (string, error){
		func() (string, error) { return "blocked", nil },
		longPage,
	}}
	f := NewFetcher(snap, FetcherConfig{Retries: 3, RetryDelay: time.Millisecond})

	_, ok := f.Fetch(context.Background(), "https://example.com")
	if !ok {
		t.Fatal("expected ok after retry")
	}
	if snap.calls != 2 {
		t.Errorf("expected 2 calls, got %d", snap.calls)
	}
}

func TestFetch_ExhaustionReportsNotOK(t *testing.T) {
	snap := &fakeSnapshotter{results: []func() (string, error){
		func() (string, error) {
			return "", resilience.NewTransientError(errors.New("tool timeout"))
		},
	}}
	f := NewFetcher(snap, FetcherConfig{Retries: 3, RetryDelay: time.Millisecond})

	text, ok := f.Fetch(context.Background(), "https://example.com")
	if ok {
		t.Fatal("expected ok=false after exhaustion")
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
	if snap.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", snap.calls)
	}
}

func TestFetcher_CloseDelegates(t *testing.T) {
	snap := &fakeSnapshotter{results: []func() (string, error){longPage}}
	f := NewFetcher(snap, FetcherConfig{})
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if !snap.closed {
		t.Error("Close must reach the underlying snapshotter")
	}
}
