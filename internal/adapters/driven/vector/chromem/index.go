// Package chromem provides a vector index backed by chromem-go, an
// embedded vector database persisted alongside the metadata store.
//
// Can Import: domain, ports/driven
package chromem

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

const collectionName = "chunks"

// Metadata keys stored on every index entry.
const (
	metaSourceID    = "source_id"
	metaKind        = "kind"
	metaDisplayName = "display_name"
	metaPosition    = "position"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a chromem-go backed implementation of driven.VectorIndex.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	dimensions int
}

// NewIndex opens (or creates) a persistent index under dataDir. All
// vectors written and queried must have exactly dimensions elements.
func NewIndex(dataDir string, dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}

	db, err := chromem.NewPersistentDB(filepath.Join(dataDir, "vectors"), false)
	if err != nil {
		return nil, fmt.Errorf("opening vector database: %w", err)
	}

	// Embeddings are always supplied explicitly, so no embedding
	// function is registered on the collection.
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("opening collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: collection,
		dimensions: dimensions,
	}, nil
}

// NewMemoryIndex creates a non-persistent index. Used by tests and
// ephemeral setups.
func NewMemoryIndex(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("opening collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: collection,
		dimensions: dimensions,
	}, nil
}

// Upsert writes the records, replacing entries with matching chunk IDs.
func (i *Index) Upsert(ctx context.Context, records []domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(records))
	for _, record := range records {
		if len(record.Vector) != i.dimensions {
			return fmt.Errorf("%w: chunk %s has %d dimensions, index expects %d",
				domain.ErrDimensionMismatch, record.ChunkID, len(record.Vector), i.dimensions)
		}
		docs = append(docs, chromem.Document{
			ID:        record.ChunkID,
			Content:   record.Text,
			Embedding: record.Vector,
			Metadata: map[string]string{
				metaSourceID:    record.Metadata.SourceID,
				metaKind:        string(record.Metadata.Kind),
				metaDisplayName: record.Metadata.DisplayName,
				metaPosition:    strconv.Itoa(record.Metadata.Position),
			},
		})
	}

	if err := i.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("upserting vectors: %w", err)
	}
	return nil
}

// DeleteBySource removes every entry whose metadata names sourceID. The
// metadata filter works without knowing the chunk IDs, which matters
// after a crash mid-ingestion.
func (i *Index) DeleteBySource(ctx context.Context, sourceID string) error {
	if i.collection.Count() == 0 {
		return nil
	}

	where := map[string]string{metaSourceID: sourceID}
	if err := i.collection.Delete(ctx, where, nil); err != nil {
		return fmt.Errorf("deleting vectors for source %s: %w", sourceID, err)
	}
	return nil
}

// Query returns up to topK entries nearest to the query vector, ordered
// by descending similarity with deterministic tie-breaks.
func (i *Index) Query(ctx context.Context, vector []float32, topK int, sourceIDs []string) ([]domain.RetrievedChunk, error) {
	if len(vector) != i.dimensions {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index expects %d",
			domain.ErrDimensionMismatch, len(vector), i.dimensions)
	}
	if topK <= 0 {
		return nil, nil
	}

	// chromem rejects nResults above the collection size, so clamp first.
	total := i.collection.Count()
	if total == 0 {
		return nil, nil
	}
	n := topK
	if n > total {
		n = total
	}

	var results []chromem.Result
	if len(sourceIDs) == 0 {
		res, err := i.collection.QueryEmbedding(ctx, vector, n, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("querying vectors: %w", err)
		}
		results = res
	} else {
		// The metadata filter is a single equality map, so a multi-source
		// query runs once per source and merges.
		for _, sourceID := range sourceIDs {
			where := map[string]string{metaSourceID: sourceID}
			res, err := i.collection.QueryEmbedding(ctx, vector, n, where, nil)
			if err != nil {
				return nil, fmt.Errorf("querying vectors for source %s: %w", sourceID, err)
			}
			results = append(results, res...)
		}
	}

	chunks := make([]domain.RetrievedChunk, 0, len(results))
	for _, res := range results {
		chunks = append(chunks, toRetrievedChunk(res))
	}
	sortRetrieved(chunks)
	if len(chunks) > topK {
		chunks = chunks[:topK]
	}
	return chunks, nil
}

// CountBySource reports how many entries a source has in the index.
// Chunk IDs derive from the source ID and a contiguous position, so
// membership is probed per position instead of scanning the index.
func (i *Index) CountBySource(ctx context.Context, sourceID string) (int, error) {
	count := 0
	for {
		id := domain.ChunkID(sourceID, count)
		if _, err := i.collection.GetByID(ctx, id); err != nil {
			return count, nil
		}
		count++
	}
}

// Count reports the total number of entries.
func (i *Index) Count(_ context.Context) (int, error) {
	return i.collection.Count(), nil
}

// Close releases resources. chromem persists write-through, so there is
// nothing to flush.
func (i *Index) Close() error {
	return nil
}

// toRetrievedChunk converts a chromem result into the domain shape.
func toRetrievedChunk(res chromem.Result) domain.RetrievedChunk {
	position, _ := strconv.Atoi(res.Metadata[metaPosition])
	return domain.RetrievedChunk{
		ChunkID: res.ID,
		Text:    res.Content,
		Score:   float64(res.Similarity),
		Metadata: domain.ChunkMetadata{
			SourceID:    res.Metadata[metaSourceID],
			Kind:        domain.OriginKind(res.Metadata[metaKind]),
			DisplayName: res.Metadata[metaDisplayName],
			Position:    position,
		},
	}
}

// sortRetrieved orders by descending score, then ascending position,
// then chunk ID, so equal-score results always come back in the same
// order.
func sortRetrieved(chunks []domain.RetrievedChunk) {
	sort.SliceStable(chunks, func(a, b int) bool {
		if chunks[a].Score != chunks[b].Score {
			return chunks[a].Score > chunks[b].Score
		}
		if chunks[a].Metadata.Position != chunks[b].Metadata.Position {
			return chunks[a].Metadata.Position < chunks[b].Metadata.Position
		}
		return chunks[a].ChunkID < chunks[b].ChunkID
	})
}
