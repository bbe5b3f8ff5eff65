// Package mcp provides an MCP (Model Context Protocol) server adapter for
// the knowledge base. It lets AI assistants like Claude ingest sources and
// ask grounded questions over the local index.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
