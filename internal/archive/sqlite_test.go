package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/step1ne/enrich-cli/internal/model"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestSQLite_SaveAndListFailed(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx, Result{
		Position: 2,
		Company:  "甲公司",
		Success:  true,
		Record:   &model.ContactRecord{Phone: "02-1234-5678"},
		Quality:  50,
	}))
	require.NoError(t, store.SaveResult(ctx, Result{
		Position: 3,
		Company:  "乙公司",
		Success:  false,
	}))

	failed, err := store.ListFailed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, 3, failed[0].Position)
	assert.Equal(t, "乙公司", failed[0].Company)
	assert.False(t, failed[0].Success)
	assert.Nil(t, failed[0].Record)
	assert.NotEmpty(t, failed[0].ID, "missing ids are generated")
}

func TestSQLite_RecordRoundTrip(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx, Result{
		Position: 4,
		Company:  "丙公司",
		Success:  false,
		Record:   &model.ContactRecord{Email: "x@y.tw", Website: "https://y.tw"},
	}))

	failed, err := store.ListFailed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	require.NotNil(t, failed[0].Record)
	assert.Equal(t, "x@y.tw", failed[0].Record.Email)
}

func TestSQLite_ListFailedRespectsLimit(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveResult(ctx, Result{Position: i + 2, Company: "x", Success: false}))
	}
	failed, err := store.ListFailed(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, failed, 3)
}

func TestSQLite_SnapshotCache(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()
	url := "https://www.104.com.tw/company/abc"

	_, hit, err := store.GetCachedSnapshot(ctx, url)
	require.NoError(t, err)
	assert.False(t, hit, "cold cache misses")

	require.NoError(t, store.PutSnapshot(ctx, url, "page body", time.Hour))
	text, hit, err := store.GetCachedSnapshot(ctx, url)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "page body", text)
}

func TestSQLite_ExpiredSnapshotsInvisibleAndPruned(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()
	url := "https://www.104.com.tw/company/abc"

	require.NoError(t, store.PutSnapshot(ctx, url, "stale body", -time.Minute))
	_, hit, err := store.GetCachedSnapshot(ctx, url)
	require.NoError(t, err)
	assert.False(t, hit, "expired entries never hit")

	n, err := store.DeleteExpiredSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = store.DeleteExpiredSnapshots(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "prune is idempotent")
}
