package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors"
)

// IngestInput is the input schema for the ingest_source tool.
type IngestInput struct {
	Location string `json:"location" jsonschema:"file path or URL of the source to ingest"`
	Kind     string `json:"kind,omitempty" jsonschema:"origin kind: document, web_page or video (default: detected from the location)"`
	Name     string `json:"name,omitempty" jsonschema:"display name override"`
}

// IngestOutput is the output schema for the ingest_source tool.
type IngestOutput struct {
	SourceID string `json:"source_id"`
	Status   string `json:"status"`
}

// QueryInput is the input schema for the query_knowledge_base tool.
type QueryInput struct {
	Question  string   `json:"question" jsonschema:"the question to answer from the knowledge base"`
	TopK      int      `json:"top_k,omitempty" jsonschema:"maximum number of chunks to retrieve (default from settings)"`
	SourceIDs []string `json:"source_ids,omitempty" jsonschema:"restrict retrieval to these source IDs"`
}

// QueryOutput is the output schema for the query_knowledge_base tool.
type QueryOutput struct {
	Answer    string           `json:"answer"`
	Reasoning string           `json:"reasoning,omitempty"`
	Citations []CitationOutput `json:"citations"`
}

// CitationOutput represents one numbered citation in an answer.
type CitationOutput struct {
	Number      int     `json:"number"`
	SourceID    string  `json:"source_id"`
	DisplayName string  `json:"display_name"`
	Kind        string  `json:"kind"`
	Positions   []int   `json:"positions"`
	BestScore   float64 `json:"best_score"`
}

// ListSourcesInput is the input schema for the list_sources tool.
type ListSourcesInput struct{}

// SourceOutput represents one knowledge base source.
type SourceOutput struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	ChunkCount  int    `json:"chunk_count"`
}

// ListSourcesOutput is the output schema for the list_sources tool.
type ListSourcesOutput struct {
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

// DeleteSourceInput is the input schema for the delete_source tool.
type DeleteSourceInput struct {
	SourceID string `json:"source_id" jsonschema:"the source to delete"`
}

// DeleteSourceOutput is the output schema for the delete_source tool.
type DeleteSourceOutput struct {
	Deleted bool `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
// Handler errors surface as tool errors, not protocol failures.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_source",
		Description: "Ingest a document, web page or video into the knowledge base",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_knowledge_base",
		Description: "Answer a question grounded in the ingested sources, with citations",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List all sources in the knowledge base",
	}, s.handleListSources)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_source",
		Description: "Delete a source and its indexed content",
	}, s.handleDeleteSource)
}

// handleIngest handles the ingest_source tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingestor == nil {
		return nil, IngestOutput{}, errors.New("ingestion is not available")
	}

	kind := domain.OriginKind(input.Kind)
	if input.Kind == "" {
		kind = extractors.KindFor(input.Location)
	}
	if !kind.IsValid() {
		return nil, IngestOutput{}, fmt.Errorf("unknown kind %q", input.Kind)
	}

	src, err := s.ports.Ingestor.Submit(ctx, driving.SubmitRequest{
		Kind:        kind,
		Location:    input.Location,
		DisplayName: input.Name,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{SourceID: src.ID, Status: src.Status.String()}, nil
}

// handleQuery handles the query_knowledge_base tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	opts := domain.QueryOptions{
		TopK:      input.TopK,
		SourceIDs: input.SourceIDs,
		MinScore:  -1,
	}

	answer, err := s.ports.Answer.Answer(ctx, input.Question, opts)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Answer:    answer.Answer,
		Reasoning: answer.Reasoning,
		Citations: make([]CitationOutput, len(answer.Citations)),
	}

	for i, c := range answer.Citations {
		output.Citations[i] = CitationOutput{
			Number:      c.Number,
			SourceID:    c.SourceID,
			DisplayName: c.DisplayName,
			Kind:        c.Kind.String(),
			Positions:   c.Positions,
			BestScore:   c.BestScore,
		}
	}

	return nil, output, nil
}

// handleListSources handles the list_sources tool invocation.
func (s *Server) handleListSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListSourcesInput,
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	if s.ports.Sources == nil {
		return nil, ListSourcesOutput{}, errors.New("source management is not available")
	}

	sources, err := s.ports.Sources.List(ctx)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}

	output := ListSourcesOutput{
		Sources: make([]SourceOutput, len(sources)),
		Count:   len(sources),
	}

	for i := range sources {
		output.Sources[i] = SourceOutput{
			ID:          sources[i].ID,
			DisplayName: sources[i].DisplayName,
			Kind:        sources[i].Kind.String(),
			Status:      sources[i].Status.String(),
			Error:       sources[i].Error,
			ChunkCount:  sources[i].ChunkCount,
		}
	}

	return nil, output, nil
}

// handleDeleteSource handles the delete_source tool invocation.
func (s *Server) handleDeleteSource(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteSourceInput,
) (*mcp.CallToolResult, DeleteSourceOutput, error) {
	if s.ports.Sources == nil {
		return nil, DeleteSourceOutput{}, errors.New("source management is not available")
	}

	if err := s.ports.Sources.Delete(ctx, input.SourceID); err != nil {
		return nil, DeleteSourceOutput{}, err
	}

	return nil, DeleteSourceOutput{Deleted: true}, nil
}
