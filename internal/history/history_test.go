package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcheck/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Add(ctx, api.TranslationResult{
			SourceText:     fmt.Sprintf("hello %d", i),
			TranslatedText: fmt.Sprintf("bonjour %d", i),
			SourceLanguage: "en",
			TargetLanguage: "fr",
		})
		require.NoError(t, err)
	}

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first; ties on created_at break by id.
	assert.Equal(t, "hello 2", entries[0].SourceText)
	assert.Equal(t, "bonjour 2", entries[0].TranslatedText)
	assert.Equal(t, "hello 0", entries[2].SourceText)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Add(ctx, api.TranslationResult{SourceText: "s", TranslatedText: "t"})
		require.NoError(t, err)
	}

	entries, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRecentEmpty(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := store.Add(ctx, api.TranslationResult{
			SourceText:     fmt.Sprintf("s%d", i),
			TranslatedText: "t",
		})
		require.NoError(t, err)
	}

	removed, err := store.Prune(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), removed)

	entries, err := store.Recent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "s9", entries[0].SourceText, "pruning keeps the newest entries")
}
