package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/notifly-tech/notifly-mcp-server/internal/ranker"
	"github.com/notifly-tech/notifly-mcp-server/internal/source"
	"github.com/notifly-tech/notifly-mcp-server/internal/storage"
	"github.com/notifly-tech/notifly-mcp-server/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodeSourceUnavailable = -32001 // Upstream unreachable and no snapshot stored
	ErrorCodeNotFound          = -32002 // URL or path is not part of the index
	ErrorCodeUnknownPlatform   = -32003 // Platform is not a supported SDK platform
	ErrorCodeEmptyQuery        = -32004 // Query parameter is empty
)

// handleSearchDocs handles the search_docs tool invocation
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query := strings.TrimSpace(getStringDefault(args, "query", ""))
	if query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	platform := types.Platform(getStringDefault(args, "platform", ""))
	if platform != "" && !types.ValidPlatform(platform) {
		return nil, newMCPError(ErrorCodeUnknownPlatform, "unknown platform", map[string]interface{}{
			"param":   "platform",
			"value":   string(platform),
			"allowed": platformEnum(),
		})
	}

	batch, err := s.catalog.DocPages(ctx)
	if err != nil {
		return nil, sourceError("failed to load documentation index", err)
	}

	pages := batch.Pages
	if platform != "" {
		pages = filterPages(pages, platform)
	}

	docs := make([]ranker.Document, len(pages))
	for i, page := range pages {
		docs[i] = ranker.Document{
			ID: strconv.Itoa(i),
			Fields: map[string]string{
				"title":       page.Title,
				"description": page.Description,
				"section":     page.Section,
				"url":         page.URL,
			},
		}
	}

	r := s.docRanker()
	r.IndexDocuments(docs)
	hits := r.Search(query, limit)

	results := make([]types.DocResult, len(hits))
	for i, hit := range hits {
		idx, _ := strconv.Atoi(hit.ID)
		results[i] = types.DocResult{
			Page:  pages[idx],
			Rank:  i + 1,
			Score: hit.Score,
		}
	}

	response := map[string]interface{}{
		"query":         query,
		"total_indexed": len(pages),
		"from_snapshot": batch.FromSnapshot,
		"fetched_at":    batch.FetchedAt.Format(time.RFC3339),
		"results":       results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetDoc handles the get_doc tool invocation
func (s *Server) handleGetDoc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	url := getStringDefault(args, "url", "")
	if url == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "url parameter is required", map[string]interface{}{
			"param":  "url",
			"reason": "missing or empty",
		})
	}

	content, err := s.catalog.PageContent(ctx, url)
	if err != nil {
		if errors.Is(err, source.ErrPageNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "page not in documentation index", map[string]interface{}{
				"url": url,
			})
		}
		return nil, sourceError("failed to fetch page", err)
	}

	return mcp.NewToolResultText(string(content)), nil
}

// handleSearchSDKCode handles the search_sdk_code tool invocation
func (s *Server) handleSearchSDKCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	platform, mcpErr := requirePlatform(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	query := strings.TrimSpace(getStringDefault(args, "query", ""))
	if query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	batch, err := s.catalog.SDKFiles(ctx, platform)
	if err != nil {
		return nil, sourceError("failed to load SDK file index", err)
	}

	docs := make([]ranker.Document, len(batch.Files))
	for i, file := range batch.Files {
		docs[i] = ranker.Document{
			ID: strconv.Itoa(i),
			Fields: map[string]string{
				"name": file.Name,
				"path": file.Path,
			},
		}
	}

	r := s.sdkRanker()
	r.IndexDocuments(docs)
	hits := r.Search(query, limit)

	results := make([]types.FileResult, len(hits))
	for i, hit := range hits {
		idx, _ := strconv.Atoi(hit.ID)
		results[i] = types.FileResult{
			File:  batch.Files[idx],
			Rank:  i + 1,
			Score: hit.Score,
		}
	}

	response := map[string]interface{}{
		"query":         query,
		"platform":      string(platform),
		"total_indexed": len(batch.Files),
		"from_snapshot": batch.FromSnapshot,
		"fetched_at":    batch.FetchedAt.Format(time.RFC3339),
		"results":       results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetSDKFile handles the get_sdk_file tool invocation
func (s *Server) handleGetSDKFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	platform, mcpErr := requirePlatform(args)
	if mcpErr != nil {
		return nil, mcpErr
	}

	path := getStringDefault(args, "path", "")
	if path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	content, err := s.catalog.FileContent(ctx, platform, path)
	if err != nil {
		if errors.Is(err, source.ErrFileNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "file not in SDK index", map[string]interface{}{
				"platform": string(platform),
				"path":     path,
			})
		}
		return nil, sourceError("failed to fetch file", err)
	}

	return mcp.NewToolResultText(string(content)), nil
}

// handleListPlatforms handles the list_platforms tool invocation
func (s *Server) handleListPlatforms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	platforms := make([]map[string]interface{}, 0, len(types.AllPlatforms))
	for _, p := range s.catalog.Platforms() {
		platforms = append(platforms, map[string]interface{}{
			"platform":  string(p),
			"index_url": s.cfg.SDK.IndexURLs[string(p)],
		})
	}

	response := map[string]interface{}{
		"platforms": platforms,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshots, err := s.catalog.Snapshots(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list snapshots", map[string]interface{}{
			"error": err.Error(),
		})
	}

	snaps := make([]map[string]interface{}, len(snapshots))
	for i, snap := range snapshots {
		snaps[i] = map[string]interface{}{
			"source":     snap.Source,
			"etag":       snap.ETag,
			"fetched_at": snap.FetchedAt.Format(time.RFC3339),
			"size_bytes": len(snap.Payload),
		}
	}

	response := map[string]interface{}{
		"server": map[string]interface{}{
			"name":           ServerName,
			"version":        ServerVersion,
			"uptime_seconds": int(time.Since(s.started).Seconds()),
			"sqlite_driver":  storage.DriverName,
			"build_mode":     storage.BuildMode,
		},
		"sources": map[string]interface{}{
			"docs_index_url": s.cfg.Docs.IndexURL,
			"platforms":      len(s.cfg.SDK.IndexURLs),
			"cache_ttl_secs": s.cfg.Cache.TTLSecs,
		},
		"snapshots": snaps,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// docRanker builds a ranker configured for documentation pages.
func (s *Server) docRanker() *ranker.Ranker {
	return ranker.New(
		ranker.WithK1(s.cfg.Ranker.K1),
		ranker.WithB(s.cfg.Ranker.B),
		ranker.WithFieldWeights(s.cfg.Ranker.DocWeights),
	)
}

// sdkRanker builds a ranker configured for SDK file indexes.
func (s *Server) sdkRanker() *ranker.Ranker {
	return ranker.New(
		ranker.WithK1(s.cfg.Ranker.K1),
		ranker.WithB(s.cfg.Ranker.B),
		ranker.WithFieldWeights(s.cfg.Ranker.SDKWeights),
	)
}

// filterPages keeps pages whose section or URL names the given platform.
// Matching is on whole path/word segments so that "js" does not match "json".
func filterPages(pages []types.DocPage, platform types.Platform) []types.DocPage {
	want := string(platform)
	filtered := make([]types.DocPage, 0, len(pages))
	for _, page := range pages {
		if segmentMatch(strings.ToLower(page.Section), " ", want) ||
			segmentMatch(strings.ToLower(page.URL), "/", want) {
			filtered = append(filtered, page)
		}
	}
	return filtered
}

func segmentMatch(text, sep, want string) bool {
	for _, seg := range strings.Split(text, sep) {
		if strings.TrimSuffix(seg, ".md") == want {
			return true
		}
	}
	return false
}

// requirePlatform extracts and validates the platform argument.
func requirePlatform(args map[string]interface{}) (types.Platform, error) {
	raw := getStringDefault(args, "platform", "")
	if raw == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "platform parameter is required", map[string]interface{}{
			"param":  "platform",
			"reason": "missing or empty",
		})
	}
	platform := types.Platform(raw)
	if !types.ValidPlatform(platform) {
		return "", newMCPError(ErrorCodeUnknownPlatform, "unknown platform", map[string]interface{}{
			"param":   "platform",
			"value":   raw,
			"allowed": platformEnum(),
		})
	}
	return platform, nil
}

// sourceError maps a catalog failure onto the right MCP error code.
func sourceError(message string, err error) error {
	code := ErrorCodeInternalError
	if errors.Is(err, source.ErrSourceUnavailable) {
		code = ErrorCodeSourceUnavailable
	}
	return newMCPError(code, message, map[string]interface{}{
		"error": err.Error(),
	})
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
