package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

func TestNewChunkStore(t *testing.T) {
	store := NewChunkStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.chunks)
}

func TestChunkStore_SaveAndGet(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	// Saved out of order; GetChunks returns them by position.
	chunks := []domain.Chunk{
		{ID: "src-1_2", SourceID: "src-1", Text: "third", Position: 2},
		{ID: "src-1_0", SourceID: "src-1", Text: "first", Position: 0},
		{ID: "src-1_1", SourceID: "src-1", Text: "second", Position: 1},
	}
	require.NoError(t, store.SaveChunks(ctx, "src-1", chunks))

	got, err := store.GetChunks(ctx, "src-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "third", got[2].Text)
}

func TestChunkStore_Get_UnknownSource(t *testing.T) {
	store := NewChunkStore()

	got, err := store.GetChunks(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestChunkStore_Save_Replaces(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, "src-1", []domain.Chunk{
		{ID: "src-1_0", SourceID: "src-1", Text: "old", Position: 0},
		{ID: "src-1_1", SourceID: "src-1", Text: "old tail", Position: 1},
	}))
	require.NoError(t, store.SaveChunks(ctx, "src-1", []domain.Chunk{
		{ID: "src-1_0", SourceID: "src-1", Text: "new", Position: 0},
	}))

	got, err := store.GetChunks(ctx, "src-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Text)
}

func TestChunkStore_Delete(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, "src-1", []domain.Chunk{
		{ID: "src-1_0", SourceID: "src-1", Text: "text", Position: 0},
	}))
	require.NoError(t, store.SaveChunks(ctx, "src-2", []domain.Chunk{
		{ID: "src-2_0", SourceID: "src-2", Text: "other", Position: 0},
	}))

	require.NoError(t, store.DeleteChunks(ctx, "src-1"))

	got, err := store.GetChunks(ctx, "src-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	kept, err := store.GetChunks(ctx, "src-2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// Deleting an unknown source is a no-op.
	assert.NoError(t, store.DeleteChunks(ctx, "nonexistent"))
}

func TestChunkStore_CopyIsolation(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	chunks := []domain.Chunk{{ID: "src-1_0", SourceID: "src-1", Text: "original", Position: 0}}
	require.NoError(t, store.SaveChunks(ctx, "src-1", chunks))

	// Mutating the caller's slice after saving must not leak into the store.
	chunks[0].Text = "mutated"

	got, err := store.GetChunks(ctx, "src-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "original", got[0].Text)

	// Mutating the returned slice must not leak either.
	got[0].Text = "mutated again"
	fresh, err := store.GetChunks(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "original", fresh[0].Text)
}
