// Package mcp provides an MCP (Model Context Protocol) server adapter for Notedex.
// It enables AI assistants like Claude to search and manage the local note index.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")

// errIndexerUnavailable is reported by index tools when no indexer is wired.
var errIndexerUnavailable = errors.New("mcp: indexer is not available")
