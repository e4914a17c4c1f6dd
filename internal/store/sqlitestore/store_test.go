package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/snaptodo/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func titles(items []model.TodoItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func waitFor(t *testing.T, ch <-chan []model.TodoItem, want []string) []model.TodoItem {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case items, ok := <-ch:
			require.True(t, ok, "live channel closed")
			if assert.ObjectsAreEqual(want, titles(items)) {
				return items
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %v", want)
			return nil
		}
	}
}

func TestInsertAndList_InsertionOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Insert(ctx, "Buy milk", now))
	require.NoError(t, s.Insert(ctx, "", now))
	require.NoError(t, s.Insert(ctx, "Call Bob", now))

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk", "", "Call Bob"}, titles(items))
	assert.Less(t, items[0].ID, items[1].ID)
	assert.Less(t, items[1].ID, items[2].ID)
	assert.Equal(t, now.UnixMilli(), items[0].CreatedAt.UnixMilli())
}

func TestDeleteByID_RemovesOnlyThatRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, s.Insert(ctx, title, time.Now()))
	}
	items, err := s.List(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DeleteByID(ctx, items[1].ID))

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, titles(got))
}

func TestDeleteByID_MissingIsNoop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, "keep", time.Now()))

	require.NoError(t, s.DeleteByID(ctx, 9999))

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, titles(got))
}

func TestIDsAreNotReused(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "first", time.Now()))
	items, err := s.List(ctx)
	require.NoError(t, err)
	first := items[0].ID

	require.NoError(t, s.DeleteByID(ctx, first))
	require.NoError(t, s.Insert(ctx, "second", time.Now()))

	items, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Greater(t, items[0].ID, first)
}

func TestObserve_PushesOnEveryChange(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Observe(ctx)
	waitFor(t, ch, []string{})

	require.NoError(t, s.Insert(ctx, "Buy milk", time.Now()))
	items := waitFor(t, ch, []string{"Buy milk"})

	require.NoError(t, s.Insert(ctx, "Call Bob", time.Now()))
	waitFor(t, ch, []string{"Buy milk", "Call Bob"})

	require.NoError(t, s.DeleteByID(ctx, items[0].ID))
	waitFor(t, ch, []string{"Call Bob"})
}

func TestWrites_CommittedEvenIfRefreshFails(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Observe(ctx)
	waitFor(t, ch, []string{})

	s.snapshot = func(context.Context) ([]model.TodoItem, error) { return nil, assert.AnError }
	require.NoError(t, s.Insert(ctx, "Buy milk", time.Now()))
	require.NoError(t, s.Insert(ctx, "Call Bob", time.Now()))

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk", "Call Bob"}, titles(items))
	require.NoError(t, s.DeleteByID(ctx, items[0].ID))

	s.snapshot = s.List
	require.NoError(t, s.Insert(ctx, "Pay rent", time.Now()))
	waitFor(t, ch, []string{"Call Bob", "Pay rent"})
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, "persisted", time.Now()))
	require.NoError(t, s.Close())

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	items, err := s2.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"persisted"}, titles(items))
}

func TestWatchExternal_PicksUpOtherWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader, err := Open(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	require.NoError(t, reader.WatchExternal(ctx))

	ch := reader.Observe(ctx)
	waitFor(t, ch, []string{})

	writer, err := Open(ctx, path)
	require.NoError(t, err)
	defer writer.Close()
	require.NoError(t, writer.Insert(ctx, "from elsewhere", time.Now()))

	waitFor(t, ch, []string{"from elsewhere"})
}
