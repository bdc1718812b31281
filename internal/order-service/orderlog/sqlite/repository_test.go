package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/mochi-storefront/internal/order-service/orderlog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func entry(id string, received time.Time) *orderlog.Entry {
	return &orderlog.Entry{
		OrderID:      id,
		Status:       orderlog.StatusReceived,
		CustomerName: "Sari",
		Phone:        "0812",
		ItemCount:    2,
		Total:        430000,
		Payload:      `{"id":"` + id + `"}`,
		TraceID:      "4bf92f3577b34da6a3ce929d0e0e4736",
		SpanID:       "00f067aa0ba902b7",
		SubmittedAt:  received.Add(-time.Second),
		ReceivedAt:   received,
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 10, 0, 0, 123456789, time.UTC)

	want := entry("o-1", at)
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGet_NotFound(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, orderlog.ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"o-1", "o-2", "o-3"} {
		require.NoError(t, repo.Save(ctx, entry(id, at.Add(time.Duration(i)*time.Minute))))
	}

	got, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "o-3", got[0].OrderID)
	assert.Equal(t, "o-2", got[1].OrderID)
}

func TestFormatTime_SortsChronologically(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	whole := formatTime(base)
	frac := formatTime(base.Add(500 * time.Millisecond))

	assert.Less(t, whole, frac)

	parsed, err := parseTime(frac)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(base.Add(500*time.Millisecond)))
}
