package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/ebaybot/internal/adapters/storage"
	"github.com/alejandrodnm/ebaybot/internal/domain"
)

func makeEntry(id, brand string, notifiedAt time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		ListingID:       id,
		Title:           "MacBook Pro 13 M1",
		CurrentPrice:    899,
		OriginalPrice:   1299,
		DiscountPercent: 30.79,
		BidCount:        7,
		Brand:           brand,
		Score:           11.58,
		URL:             "https://www.ebay.com/itm/" + id,
		NotifiedAt:      notifiedAt,
	}
}

func TestSQLiteLedger_RecordAndLookup(t *testing.T) {
	db, err := storage.NewSQLiteLedger(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	seen, err := db.HasNotified(ctx, "A1")
	require.NoError(t, err)
	assert.False(t, seen, "ledger vacío: no encontrado no es error")

	err = db.RecordNotified(ctx, makeEntry("A1", "MacBook", time.Now().UTC()))
	require.NoError(t, err)

	seen, err = db.HasNotified(ctx, "A1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSQLiteLedger_RecordIsIdempotent(t *testing.T) {
	db, err := storage.NewSQLiteLedger(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	entry := makeEntry("A1", "MacBook", time.Now().UTC())

	require.NoError(t, db.RecordNotified(ctx, entry))
	// Re-insertar el mismo ID es un no-op, no un error
	require.NoError(t, db.RecordNotified(ctx, entry))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalNotified)
}

func TestSQLiteLedger_PurgeOlderThan(t *testing.T) {
	db, err := storage.NewSQLiteLedger(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, db.RecordNotified(ctx, makeEntry("old", "ThinkPad", now.Add(-8*24*time.Hour))))
	require.NoError(t, db.RecordNotified(ctx, makeEntry("fresh", "MacBook", now)))

	deleted, err := db.PurgeOlderThan(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	seen, err := db.HasNotified(ctx, "old")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = db.HasNotified(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSQLiteLedger_PurgeEmptyLedger(t *testing.T) {
	db, err := storage.NewSQLiteLedger(":memory:")
	require.NoError(t, err)
	defer db.Close()

	deleted, err := db.PurgeOlderThan(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestSQLiteLedger_Stats(t *testing.T) {
	db, err := storage.NewSQLiteLedger(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	first := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	last := time.Date(2026, 9, 1, 7, 30, 15, 0, time.UTC)

	require.NoError(t, db.RecordNotified(ctx, makeEntry("A1", "MacBook", first)))
	require.NoError(t, db.RecordNotified(ctx, makeEntry("A2", "MacBook", last)))
	require.NoError(t, db.RecordNotified(ctx, makeEntry("B1", "ThinkPad", first)))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalNotified)
	assert.Equal(t, 2, stats.ByBrand["MacBook"])
	assert.Equal(t, 1, stats.ByBrand["ThinkPad"])
	// El timestamp sobrevive al round-trip: se guarda y se lee, no queda en cero
	assert.True(t, stats.LastNotifiedAt.Equal(last),
		"LastNotifiedAt = %v, esperaba %v", stats.LastNotifiedAt, last)
}

func TestSQLiteLedger_StatsEmptyLedger(t *testing.T) {
	db, err := storage.NewSQLiteLedger(":memory:")
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalNotified)
	assert.True(t, stats.LastNotifiedAt.IsZero())
}

func TestSQLiteLedger_SaveCycle(t *testing.T) {
	db, err := storage.NewSQLiteLedger(":memory:")
	require.NoError(t, err)
	defer db.Close()

	summary := domain.CycleSummary{
		ID:         "1f3a7c1e-0000-4000-8000-000000000001",
		StartedAt:  time.Now().UTC(),
		Fetched:    42,
		Candidates: 3,
		Notified:   2,
		BestScore:  11.58,
	}
	require.NoError(t, db.SaveCycle(context.Background(), summary))
}

func TestSQLiteLedger_MissingOptionalFields(t *testing.T) {
	db, err := storage.NewSQLiteLedger(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	entry := makeEntry("C1", "", time.Now().UTC())
	entry.OriginalPrice = 0 // sin precio "was" → NULL en la fila

	require.NoError(t, db.RecordNotified(ctx, entry))

	seen, err := db.HasNotified(ctx, "C1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Marca vacía no aparece en el desglose por marca
	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats.ByBrand)
}
