package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/logger"
)

// fallbackGroundedPrompt grounds the answer when no prompt store is
// wired or the stored template is unusable. Matches the embedded
// default in the file prompt store.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const fallbackGroundedPrompt = `You are a helpful assistant that answers questions using ONLY the provided context documents.

Context documents:
%s

Instructions:
1. Think through the question step by step, using only the context above.
2. Cite the documents you rely on by their bracketed numbers, e.g. [1] or [2].
3. Do not use knowledge that is not present in the context documents.
4. If the context does not contain enough information to answer, state that clearly.

Structure your response as:
Step 1: <reasoning>
Step 2: <reasoning>
Final answer: <answer with citations>`

// answerMarkers separate the reasoning trace from the final answer in a
// provider response, checked in order. Providers that follow the prompt
// use the first one.
var answerMarkers = []string{
	"Final answer:",
	"Final Answer:",
	"FINAL ANSWER:",
	"The answer is:",
	"Answer:",
	"In conclusion:",
}

// Ensure AnswerService implements its ports.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// AnswerService implements retrieval and grounding: embed the question,
// retrieve candidates, aggregate citations by source, prompt the
// generation provider and parse the reasoning trace out of its response.
type AnswerService struct {
	sources  driven.SourceStore
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService

	mu      sync.RWMutex
	prompts driven.PromptStore

	topK     int
	minScore float64
	chatOpts driven.ChatOptions
}

// NewAnswerService wires the retrieval collaborators. The settings
// provide the retrieval defaults and the generation options.
func NewAnswerService(
	sources driven.SourceStore,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	settings domain.Settings,
) *AnswerService {
	return &AnswerService{
		sources:  sources,
		vectors:  vectors,
		embedder: embedder,
		llm:      llm,
		topK:     settings.Retrieval.TopK,
		minScore: settings.Retrieval.MinScore,
		chatOpts: driven.ChatOptions{
			MaxTokens:   settings.Generation.MaxTokens,
			Temperature: settings.Generation.Temperature,
		},
	}
}

// SetPromptStore injects a prompt store for customisable prompts.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = store
}

// Answer produces a cited, grounded answer for the question.
func (s *AnswerService) Answer(ctx context.Context, question string, opts domain.QueryOptions) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.topK
	}
	minScore := opts.MinScore
	if minScore < 0 {
		minScore = s.minScore
	}

	// 1. Embed the question.
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	// 2. Retrieve candidate chunks, scoped when the caller asked for
	// specific sources.
	candidates, err := s.vectors.Query(ctx, vector, topK, opts.SourceIDs)
	if err != nil {
		return nil, fmt.Errorf("retrieving candidates: %w", err)
	}

	// 3. Drop weak candidates, then resolve the survivors against the
	// metadata store. A source deleted since indexing drops its
	// candidates rather than failing the query.
	grounded, err := s.ground(ctx, candidates, minScore)
	if err != nil {
		return nil, err
	}

	// 4. Nothing usable short-circuits to the fixed insufficient-context
	// answer; the generation provider is not called.
	if len(grounded) == 0 {
		return &domain.Answer{
			Answer:    domain.InsufficientContextAnswer,
			Reasoning: domain.InsufficientContextReasoning,
		}, nil
	}

	// 5. Aggregate citations by first appearance and build the numbered
	// context blocks.
	citations, blocks := aggregate(grounded)

	// 6. Ask for a grounded, step-by-step answer. A provider failure
	// degrades to a fixed answer that still carries the citations.
	content, err := s.generate(ctx, question, blocks)
	if err != nil {
		if domain.IsConfiguration(err) {
			return nil, err
		}
		logger.Error("answer generation failed: %v", err)
		return &domain.Answer{
			Answer:    domain.DegradedAnswer,
			Reasoning: domain.DegradedReasoning,
			Citations: citations,
		}, nil
	}

	reasoning, answer := splitReasoning(content)
	return &domain.Answer{
		Answer:    answer,
		Reasoning: reasoning,
		Citations: citations,
	}, nil
}

// groundedChunk pairs a retrieval hit with its authoritative source
// record.
type groundedChunk struct {
	chunk  domain.RetrievedChunk
	source *domain.Source
}

// ground filters candidates by score and resolves each survivor's
// source. Resolution results are memoised per source, including the
// deleted ones, so a query never looks up the same source twice.
func (s *AnswerService) ground(ctx context.Context, candidates []domain.RetrievedChunk, minScore float64) ([]groundedChunk, error) {
	grounded := make([]groundedChunk, 0, len(candidates))
	resolved := make(map[string]*domain.Source)

	for _, candidate := range candidates {
		if candidate.Score < minScore {
			continue
		}

		src, seen := resolved[candidate.Metadata.SourceID]
		if !seen {
			var err error
			src, err = s.sources.Get(ctx, candidate.Metadata.SourceID)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					return nil, fmt.Errorf("resolving source %s: %w", candidate.Metadata.SourceID, err)
				}
				src = nil
			}
			resolved[candidate.Metadata.SourceID] = src
		}
		if src == nil {
			logger.Debug("dropping chunk %s: source deleted since indexing", candidate.ChunkID)
			continue
		}

		grounded = append(grounded, groundedChunk{chunk: candidate, source: src})
	}

	return grounded, nil
}

// contextBlock is one numbered, per-source span set handed to the
// generation provider.
type contextBlock struct {
	number int
	name   string
	texts  []string
}

// aggregate collapses chunks of the same source into one citation,
// numbered in order of first appearance in the ranked candidate list.
// The candidates arrive score-descending, so a source's first chunk
// carries its best score.
func aggregate(grounded []groundedChunk) ([]domain.Citation, []contextBlock) {
	index := make(map[string]int)
	citations := make([]domain.Citation, 0, len(grounded))
	blocks := make([]contextBlock, 0, len(grounded))

	for _, g := range grounded {
		i, seen := index[g.source.ID]
		if !seen {
			i = len(citations)
			index[g.source.ID] = i
			citations = append(citations, domain.Citation{
				Number:      i + 1,
				SourceID:    g.source.ID,
				DisplayName: g.source.DisplayName,
				Kind:        g.source.Kind,
				BestScore:   g.chunk.Score,
			})
			blocks = append(blocks, contextBlock{number: i + 1, name: g.source.DisplayName})
		}
		citations[i].Positions = append(citations[i].Positions, g.chunk.Metadata.Position)
		blocks[i].texts = append(blocks[i].texts, g.chunk.Text)
	}

	return citations, blocks
}

// renderBlocks formats the numbered context blocks for the prompt.
func renderBlocks(blocks []contextBlock) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] Document: %s\n", block.number, block.name)
		b.WriteString(strings.Join(block.texts, "\n"))
	}
	return b.String()
}

// generate renders the grounding prompt and calls the provider.
func (s *AnswerService) generate(ctx context.Context, question string, blocks []contextBlock) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: fmt.Sprintf(s.promptTemplate(), renderBlocks(blocks))},
		{Role: "user", Content: question},
	}
	return s.llm.Chat(ctx, messages, s.chatOpts)
}

// promptTemplate loads the grounded-answer prompt, falling back to the
// built-in default when the store cannot serve it. A template without
// the placeholder cannot carry the context blocks and is ignored.
func (s *AnswerService) promptTemplate() string {
	s.mu.RLock()
	store := s.prompts
	s.mu.RUnlock()

	if store == nil {
		return fallbackGroundedPrompt
	}

	tmpl, err := store.Load(driven.PromptGroundedAnswer)
	if err != nil {
		logger.Warn("grounded answer prompt not loaded: %v", err)
		return fallbackGroundedPrompt
	}
	if !strings.Contains(tmpl, "%s") {
		logger.Warn("grounded answer prompt has no context placeholder; using the default")
		return fallbackGroundedPrompt
	}
	return tmpl
}

// splitReasoning separates the reasoning trace from the final answer.
// Responses that ignore the prompt structure come back whole as the
// answer with an empty trace.
func splitReasoning(content string) (reasoning, answer string) {
	content = strings.TrimSpace(content)
	for _, marker := range answerMarkers {
		if idx := strings.LastIndex(content, marker); idx >= 0 {
			return strings.TrimSpace(content[:idx]), strings.TrimSpace(content[idx+len(marker):])
		}
	}
	return "", content
}
