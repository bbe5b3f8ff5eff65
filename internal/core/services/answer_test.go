package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/storage/memory"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/vector/chromem"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// --- Mock implementations for answer testing ---

// answerMockEmbedder returns a fixed query vector.
type answerMockEmbedder struct {
	vector []float32
	err    error
}

func (m *answerMockEmbedder) Embed(context.Context, string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func (m *answerMockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vector, err := m.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (m *answerMockEmbedder) Dimensions() int            { return len(m.vector) }
func (m *answerMockEmbedder) ModelName() string          { return "mock-embedder" }
func (m *answerMockEmbedder) Ping(context.Context) error { return nil }
func (m *answerMockEmbedder) Close() error               { return nil }

// answerMockLLM records the conversation it was given and returns canned
// content.
type answerMockLLM struct {
	mu       sync.Mutex
	calls    int
	content  string
	err      error
	messages []driven.ChatMessage
}

func (m *answerMockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = messages
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

func (m *answerMockLLM) ModelName() string          { return "mock-llm" }
func (m *answerMockLLM) Ping(context.Context) error { return nil }
func (m *answerMockLLM) Close() error               { return nil }

func (m *answerMockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *answerMockLLM) systemMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.Role == "system" {
			return msg.Content
		}
	}
	return ""
}

// answerStubPrompts serves one template for every prompt name.
type answerStubPrompts struct {
	tmpl string
	err  error
}

func (s *answerStubPrompts) Load(string) (string, error) { return s.tmpl, s.err }
func (s *answerStubPrompts) Reload()                     {}

// --- Harness ---

// unitVector builds a unit-length vector whose similarity to the query
// vector [1 0 0 0] is exactly score, which makes ranking assertions
// readable.
func unitVector(score float64) []float32 {
	return []float32{float32(score), float32(math.Sqrt(1 - score*score)), 0, 0}
}

func queryVector() []float32 {
	return []float32{1, 0, 0, 0}
}

// answerFixture bundles the answer service with a seeded index and
// metadata store: source-a (guide.md) has three chunks scoring 0.95,
// 0.85 and 0.75; source-b (notes.pdf) has two scoring 0.90 and 0.80.
type answerFixture struct {
	svc     *AnswerService
	sources *memory.SourceStore
	index   *chromem.Index
	llm     *answerMockLLM
}

func newAnswerFixture(t *testing.T, seed bool) *answerFixture {
	t.Helper()

	index, err := chromem.NewMemoryIndex(testDims)
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.Embedding.Dimensions = testDims
	settings.Retrieval.TopK = 5
	settings.Retrieval.MinScore = 0.2

	fixture := &answerFixture{
		sources: memory.NewSourceStore(),
		index:   index,
		llm:     &answerMockLLM{content: "Final answer: nothing noteworthy."},
	}
	fixture.svc = NewAnswerService(
		fixture.sources,
		fixture.index,
		&answerMockEmbedder{vector: queryVector()},
		fixture.llm,
		settings,
	)

	if seed {
		seedAnswerFixture(t, fixture)
	}
	return fixture
}

func seedAnswerFixture(t *testing.T, fixture *answerFixture) {
	t.Helper()
	ctx := context.Background()

	sources := []struct {
		id     string
		name   string
		kind   domain.OriginKind
		scores []float64
	}{
		{"source-a", "guide.md", domain.OriginDocument, []float64{0.95, 0.85, 0.75}},
		{"source-b", "notes.pdf", domain.OriginDocument, []float64{0.90, 0.80}},
	}

	for _, s := range sources {
		require.NoError(t, fixture.sources.Save(ctx, &domain.Source{
			ID:          s.id,
			Kind:        s.kind,
			DisplayName: s.name,
			Location:    "/kb/" + s.name,
			Status:      domain.StatusCompleted,
			ChunkCount:  len(s.scores),
		}))

		records := make([]domain.EmbeddingRecord, len(s.scores))
		for position, score := range s.scores {
			records[position] = domain.EmbeddingRecord{
				ChunkID: domain.ChunkID(s.id, position),
				Vector:  unitVector(score),
				Text:    fmt.Sprintf("%s content at position %d", s.name, position),
				Metadata: domain.ChunkMetadata{
					SourceID:    s.id,
					Kind:        s.kind,
					DisplayName: s.name,
					Position:    position,
				},
			}
		}
		require.NoError(t, fixture.index.Upsert(ctx, records))
	}
}

// --- Tests ---

func TestAnswerService_Answer_AggregatesCitationsBySource(t *testing.T) {
	fixture := newAnswerFixture(t, true)
	fixture.llm.content = "Step 1: The guide covers setup [1].\n" +
		"Step 2: The notes add operational detail [2].\n" +
		"Final answer: Setup is covered by the guide [1], with extra detail in the notes [2]."

	answer, err := fixture.svc.Answer(context.Background(), "how do I set this up?", domain.QueryOptions{})
	require.NoError(t, err)
	require.NotNil(t, answer)

	// Five chunks from two sources collapse into exactly two citations,
	// numbered by first appearance in the ranked candidates.
	require.Len(t, answer.Citations, 2)

	first := answer.Citations[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "source-a", first.SourceID)
	assert.Equal(t, "guide.md", first.DisplayName)
	assert.Equal(t, domain.OriginDocument, first.Kind)
	assert.Equal(t, []int{0, 1, 2}, first.Positions)
	assert.InDelta(t, 0.95, first.BestScore, 0.01)

	second := answer.Citations[1]
	assert.Equal(t, 2, second.Number)
	assert.Equal(t, "source-b", second.SourceID)
	assert.Equal(t, []int{0, 1}, second.Positions)
	assert.InDelta(t, 0.90, second.BestScore, 0.01)

	assert.Equal(t, "Setup is covered by the guide [1], with extra detail in the notes [2].", answer.Answer)
	assert.Contains(t, answer.Reasoning, "Step 1")
	assert.Equal(t, 1, fixture.llm.callCount())

	system := fixture.llm.systemMessage()
	assert.Contains(t, system, "[1] Document: guide.md")
	assert.Contains(t, system, "[2] Document: notes.pdf")
}

func TestAnswerService_Answer_EmptyKnowledgeBase(t *testing.T) {
	fixture := newAnswerFixture(t, false)

	answer, err := fixture.svc.Answer(context.Background(), "anything at all?", domain.QueryOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.InsufficientContextAnswer, answer.Answer)
	assert.Equal(t, domain.InsufficientContextReasoning, answer.Reasoning)
	assert.Empty(t, answer.Citations)

	// No grounding means no generation call to pay for.
	assert.Zero(t, fixture.llm.callCount())
}

func TestAnswerService_Answer_MinScoreFiltersWeakCandidates(t *testing.T) {
	fixture := newAnswerFixture(t, true)

	answer, err := fixture.svc.Answer(context.Background(), "anything?", domain.QueryOptions{MinScore: 0.99})
	require.NoError(t, err)

	assert.Equal(t, domain.InsufficientContextAnswer, answer.Answer)
	assert.Zero(t, fixture.llm.callCount())
}

func TestAnswerService_Answer_DropsDeletedSourceCandidates(t *testing.T) {
	fixture := newAnswerFixture(t, true)
	ctx := context.Background()

	// source-b disappears between indexing and the query, as a racing
	// deletion would make it do. Its candidates drop; the query succeeds.
	require.NoError(t, fixture.sources.Delete(ctx, "source-b"))

	answer, err := fixture.svc.Answer(ctx, "how do I set this up?", domain.QueryOptions{})
	require.NoError(t, err)

	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "source-a", answer.Citations[0].SourceID)
	assert.Equal(t, 1, answer.Citations[0].Number)
	assert.Equal(t, 1, fixture.llm.callCount())
}

func TestAnswerService_Answer_DegradedWhenGenerationFails(t *testing.T) {
	fixture := newAnswerFixture(t, true)
	fixture.llm.err = domain.ErrProviderUnavailable

	answer, err := fixture.svc.Answer(context.Background(), "how do I set this up?", domain.QueryOptions{})
	require.NoError(t, err)

	// The provider failure degrades the answer but keeps the citations,
	// so the caller still sees what retrieval found.
	assert.Equal(t, domain.DegradedAnswer, answer.Answer)
	assert.Equal(t, domain.DegradedReasoning, answer.Reasoning)
	assert.Len(t, answer.Citations, 2)
}

func TestAnswerService_Answer_EmptyQuestion(t *testing.T) {
	fixture := newAnswerFixture(t, false)

	_, err := fixture.svc.Answer(context.Background(), "   ", domain.QueryOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswerService_Answer_ScopedToRequestedSources(t *testing.T) {
	fixture := newAnswerFixture(t, true)

	answer, err := fixture.svc.Answer(context.Background(), "what do the notes say?", domain.QueryOptions{
		SourceIDs: []string{"source-b"},
	})
	require.NoError(t, err)

	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "source-b", answer.Citations[0].SourceID)
	assert.Equal(t, 1, answer.Citations[0].Number)
	assert.Equal(t, []int{0, 1}, answer.Citations[0].Positions)
}

func TestAnswerService_Answer_UsesInjectedPromptStore(t *testing.T) {
	fixture := newAnswerFixture(t, true)
	fixture.svc.SetPromptStore(&answerStubPrompts{tmpl: "ANSWER FROM:\n%s\nONLY."})

	_, err := fixture.svc.Answer(context.Background(), "how do I set this up?", domain.QueryOptions{})
	require.NoError(t, err)

	system := fixture.llm.systemMessage()
	assert.Contains(t, system, "ANSWER FROM:")
	assert.Contains(t, system, "[1] Document: guide.md")
}

func TestAnswerService_Answer_IgnoresPromptWithoutPlaceholder(t *testing.T) {
	fixture := newAnswerFixture(t, true)
	fixture.svc.SetPromptStore(&answerStubPrompts{tmpl: "a template that lost its placeholder"})

	_, err := fixture.svc.Answer(context.Background(), "how do I set this up?", domain.QueryOptions{})
	require.NoError(t, err)

	// The unusable template falls back to the built-in default.
	assert.Contains(t, fixture.llm.systemMessage(), "Context documents:")
}

func TestSplitReasoning(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		reasoning string
		answer    string
	}{
		{
			name:      "structured response",
			content:   "Step 1: check the guide.\nStep 2: check the notes.\nFinal answer: use both [1][2].",
			reasoning: "Step 1: check the guide.\nStep 2: check the notes.",
			answer:    "use both [1][2].",
		},
		{
			name:      "capitalised marker",
			content:   "Reasoning here.\nFinal Answer: the result.",
			reasoning: "Reasoning here.",
			answer:    "the result.",
		},
		{
			name:      "answer is marker",
			content:   "The answer is: forty-two.",
			reasoning: "",
			answer:    "forty-two.",
		},
		{
			name:      "last marker wins",
			content:   "Final answer: not yet.\nMore thought.\nFinal answer: now it is.",
			reasoning: "Final answer: not yet.\nMore thought.",
			answer:    "now it is.",
		},
		{
			name:      "no marker",
			content:   "Just a flat reply with no structure.",
			reasoning: "",
			answer:    "Just a flat reply with no structure.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasoning, answer := splitReasoning(tt.content)
			assert.Equal(t, tt.reasoning, reasoning)
			assert.Equal(t, tt.answer, answer)
		})
	}
}
