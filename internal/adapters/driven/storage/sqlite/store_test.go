package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := domain.SessionRecord{
		ID:   "abc-123",
		Name: "default",
		College: &domain.College{
			ID: "42", Name: "IIT Bombay", Domain: "iitb.ac.in", PagesCount: 120,
		},
		Turns: []domain.Turn{
			{ID: 1, Role: domain.RoleUser, Content: "IIT Bombay", CreatedAt: time.Now().UTC()},
			{ID: 2, Role: domain.RoleAssistant, Content: "All set!", CreatedAt: time.Now().UTC()},
		},
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, record))

	got, err := store.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", got.ID)
	require.NotNil(t, got.College)
	assert.Equal(t, "42", got.College.ID)
	assert.Equal(t, 120, got.College.PagesCount)
	require.Len(t, got.Turns, 2)
	assert.Equal(t, domain.RoleAssistant, got.Turns[1].Role)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.SessionRecord{ID: "a", Name: "default"}))
	require.NoError(t, store.Save(ctx, domain.SessionRecord{ID: "b", Name: "default"}))

	got, err := store.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_UnboundSessionHasNoCollege(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.SessionRecord{
		ID:   "a",
		Name: "default",
		Turns: []domain.Turn{
			{ID: 1, Role: domain.RoleUser, Content: "hello", CreatedAt: time.Now().UTC()},
		},
	}))

	got, err := store.Get(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, got.College)
	assert.Len(t, got.Turns, 1)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.SessionRecord{ID: "a", Name: "default"}))
	require.NoError(t, store.Delete(ctx, "default"))

	_, err := store.Get(ctx, "default")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting a missing record is not an error.
	assert.NoError(t, store.Delete(ctx, "default"))
}

func TestStore_ListOrdersByRecency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, store.Save(ctx, domain.SessionRecord{ID: "a", Name: "older", UpdatedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.SessionRecord{ID: "b", Name: "newer", UpdatedAt: now}))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0].Name)
	assert.Equal(t, "older", records[1].Name)
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), domain.SessionRecord{ID: "a", Name: "default"}))
	require.NoError(t, store.Close())

	// Reopening the same database must not re-run applied migrations.
	store2, err := NewStore(dir)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.Get(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}
