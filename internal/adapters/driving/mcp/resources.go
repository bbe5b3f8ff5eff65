package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for knowledge base resources.
	uriScheme = "rag://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing sources.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "List of all sources in the knowledge base",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	// Template for source detail.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{sourceId}",
		Name:        "source-detail",
		Description: "Full detail of a specific source",
		MIMEType:    "application/json",
	}, s.handleSourceResource)

	// Template for source chunks.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{sourceId}/chunks",
		Name:        "source-chunks",
		Description: "Indexed chunks of a specific source, in order",
		MIMEType:    "application/json",
	}, s.handleChunksResource)
}

// handleSourcesResource returns a list of all knowledge base sources.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sources == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	sources, err := s.ports.Sources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	// Build simplified source list.
	type sourceInfo struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Kind       string `json:"kind"`
		Status     string `json:"status"`
		ChunkCount int    `json:"chunk_count"`
	}

	infos := make([]sourceInfo, len(sources))
	for i := range sources {
		infos[i] = sourceInfo{
			ID:         sources[i].ID,
			Name:       sources[i].DisplayName,
			Kind:       sources[i].Kind.String(),
			Status:     sources[i].Status.String(),
			ChunkCount: sources[i].ChunkCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSourceResource returns the full detail of a specific source.
func (s *Server) handleSourceResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sources == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract sourceId from URI: rag://sources/{sourceId}
	sourceID := extractSourceID(req.Params.URI)
	if sourceID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	src, err := s.ports.Sources.Get(ctx, sourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting source: %w", err)
	}

	type sourceDetail struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Kind       string `json:"kind"`
		Location   string `json:"location"`
		Status     string `json:"status"`
		Error      string `json:"error,omitempty"`
		ChunkCount int    `json:"chunk_count"`
		TokenCount int    `json:"token_count"`
		Attempts   int    `json:"attempts"`
		CreatedAt  string `json:"created_at"`
		UpdatedAt  string `json:"updated_at"`
	}

	detail := sourceDetail{
		ID:         src.ID,
		Name:       src.DisplayName,
		Kind:       src.Kind.String(),
		Location:   src.Location,
		Status:     src.Status.String(),
		Error:      src.Error,
		ChunkCount: src.ChunkCount,
		TokenCount: src.TokenCount,
		Attempts:   src.Attempts,
		CreatedAt:  src.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  src.UpdatedAt.Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling source: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleChunksResource returns the ordered chunks of a specific source.
func (s *Server) handleChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sources == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract sourceId from URI: rag://sources/{sourceId}/chunks
	sourceID := extractChunkSourceID(req.Params.URI)
	if sourceID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Sources.Chunks(ctx, sourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	type chunkInfo struct {
		Position   int    `json:"position"`
		Text       string `json:"text"`
		TokenCount int    `json:"token_count"`
	}

	infos := make([]chunkInfo, len(chunks))
	for i := range chunks {
		infos[i] = chunkInfo{
			Position:   chunks[i].Position,
			Text:       chunks[i].Text,
			TokenCount: chunks[i].TokenCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling chunks: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSourceID extracts the source ID from a URI like rag://sources/{sourceId}.
func extractSourceID(uri string) string {
	const prefix = uriScheme + "sources/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}

	return id
}

// extractChunkSourceID extracts the source ID from a URI like rag://sources/{sourceId}/chunks.
func extractChunkSourceID(uri string) string {
	const prefix = uriScheme + "sources/"
	const suffix = "/chunks"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}

	return id
}
