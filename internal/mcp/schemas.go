package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/notifly-tech/notifly-mcp-server/pkg/types"
)

// platformEnum lists the platform values accepted by tool schemas.
func platformEnum() []string {
	values := make([]string, len(types.AllPlatforms))
	for i, p := range types.AllPlatforms {
		values[i] = string(p)
	}
	return values
}

// searchDocsTool returns the tool definition for search_docs
func searchDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_docs",
		Description: "Search the Notifly documentation by keyword; returns ranked pages with titles, URLs, and descriptions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search keywords (English or Korean)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"platform": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to pages about one SDK platform",
					"enum":        platformEnum(),
				},
			},
			Required: []string{"query"},
		},
	}
}

// getDocTool returns the tool definition for get_doc
func getDocTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_doc",
		Description: "Fetch the full markdown content of one documentation page by URL",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Page URL exactly as returned by search_docs",
				},
			},
			Required: []string{"url"},
		},
	}
}

// searchSDKCodeTool returns the tool definition for search_sdk_code
func searchSDKCodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_sdk_code",
		Description: "Search a Notifly SDK's source file index by keyword; returns ranked file paths",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"platform": map[string]interface{}{
					"type":        "string",
					"description": "SDK platform to search",
					"enum":        platformEnum(),
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search keywords, e.g. a type or feature name",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"platform", "query"},
		},
	}
}

// getSDKFileTool returns the tool definition for get_sdk_file
func getSDKFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_sdk_file",
		Description: "Fetch the raw content of one SDK source file by platform and path",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"platform": map[string]interface{}{
					"type":        "string",
					"description": "SDK platform the file belongs to",
					"enum":        platformEnum(),
				},
				"path": map[string]interface{}{
					"type":        "string",
					"description": "File path exactly as returned by search_sdk_code",
				},
			},
			Required: []string{"platform", "path"},
		},
	}
}

// listPlatformsTool returns the tool definition for list_platforms
func listPlatformsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_platforms",
		Description: "List the SDK platforms available to search_sdk_code and get_sdk_file",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report server health, configured sources, and snapshot freshness",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
