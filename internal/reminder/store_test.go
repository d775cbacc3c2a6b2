package reminder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "remind.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_OpenAndPing(t *testing.T) {
	store := testStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestStore_AddAndGetByID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	due := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	added, err := store.Add(ctx, Reminder{
		Text:           "buy milk",
		DueAt:          due,
		Priority:       PriorityHigh,
		ProjectContext: "home",
	})
	require.NoError(t, err)
	assert.Greater(t, added.ID, int64(0))

	got, err := store.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Text)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, "home", got.ProjectContext)
	assert.True(t, got.DueAt.Equal(due))
	assert.Nil(t, got.DoneAt)
}

func TestStore_Add_DefaultsPriority(t *testing.T) {
	store := testStore(t)

	added, err := store.Add(context.Background(), Reminder{
		Text:  "water plants",
		DueAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, added.Priority)
}

func TestStore_Add_RejectsOversizedText(t *testing.T) {
	store := testStore(t)

	long := make([]byte, MaxTextLength+1)
	for i := range long {
		long[i] = 'x'
	}

	_, err := store.Add(context.Background(), Reminder{
		Text:  string(long),
		DueAt: time.Now().UTC(),
	})
	assert.Error(t, err)
}

func TestStore_Overdue(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	past, err := store.Add(ctx, Reminder{Text: "past", DueAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = store.Add(ctx, Reminder{Text: "future", DueAt: now.Add(time.Hour)})
	require.NoError(t, err)

	overdue, err := store.Overdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, past.ID, overdue[0].ID)

	// A completed reminder is no longer overdue.
	require.NoError(t, store.MarkDone(ctx, past.ID))
	overdue, err = store.Overdue(ctx)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestStore_Overdue_Ordering(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	later, err := store.Add(ctx, Reminder{Text: "later", DueAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	earlier, err := store.Add(ctx, Reminder{Text: "earlier", DueAt: now.Add(-2 * time.Hour)})
	require.NoError(t, err)

	overdue, err := store.Overdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.Equal(t, earlier.ID, overdue[0].ID)
	assert.Equal(t, later.ID, overdue[1].ID)
}

func TestStore_Upcoming(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	inWindow, err := store.Add(ctx, Reminder{Text: "soon", DueAt: now.Add(2 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Add(ctx, Reminder{Text: "far", DueAt: now.Add(48 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Add(ctx, Reminder{Text: "overdue", DueAt: now.Add(-time.Hour)})
	require.NoError(t, err)

	upcoming, err := store.Upcoming(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, inWindow.ID, upcoming[0].ID)
}

func TestStore_MarkDone(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, Reminder{Text: "task", DueAt: time.Now().UTC()})
	require.NoError(t, err)

	require.NoError(t, store.MarkDone(ctx, added.ID))

	got, err := store.GetByID(ctx, added.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DoneAt)

	// Completion is terminal.
	assert.Error(t, store.MarkDone(ctx, added.ID))
}

func TestStore_MarkDone_NotFound(t *testing.T) {
	store := testStore(t)
	assert.Error(t, store.MarkDone(context.Background(), 12345))
}
