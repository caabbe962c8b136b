package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/notifly-tech/notifly-mcp-server/internal/config"
	"github.com/notifly-tech/notifly-mcp-server/internal/source"
	"github.com/notifly-tech/notifly-mcp-server/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "notifly-mcp-server"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	catalog *source.Catalog
	store   storage.Store
	cfg     *config.Config
	started time.Time
}

// NewServer creates a new MCP server instance from a validated configuration
func NewServer(cfg *config.Config) (*Server, error) {
	// Create the snapshot directory if it doesn't exist
	if dir := filepath.Dir(cfg.Cache.SnapshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStore(cfg.Cache.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	retry := source.DefaultRetryConfig()
	retry.MaxRetries = cfg.HTTP.MaxRetries
	fetcher := source.NewFetcher(cfg.HTTPTimeout(), retry)

	catalog := source.NewCatalog(fetcher, store, source.Config{
		DocsIndexURL: cfg.Docs.IndexURL,
		SDKIndexURLs: cfg.SDKIndexURLs(),
		CacheTTL:     cfg.CacheTTL(),
	})

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		catalog: catalog,
		store:   store,
		cfg:     cfg,
		started: time.Now(),
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// Warm prefetches every configured source so the first tool call is served
// from cache and a snapshot exists for offline fallback. Best effort: the
// caller may log the error and serve anyway, falling back to stored
// snapshots or on-demand fetches.
func (s *Server) Warm(ctx context.Context) error {
	return s.catalog.RefreshAll(ctx)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocsTool(), s.handleSearchDocs)
	s.mcp.AddTool(getDocTool(), s.handleGetDoc)
	s.mcp.AddTool(searchSDKCodeTool(), s.handleSearchSDKCode)
	s.mcp.AddTool(getSDKFileTool(), s.handleGetSDKFile)
	s.mcp.AddTool(listPlatformsTool(), s.handleListPlatforms)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
