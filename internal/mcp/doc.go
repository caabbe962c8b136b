// Package mcp implements the Model Context Protocol server that exposes
// Notifly's documentation and SDK source indexes to AI assistants.
//
// The server speaks MCP over stdio and registers six tools. Each search tool
// loads the current index batch through the source catalog (in-memory cache,
// then HTTP, then the SQLite snapshot store), ranks it with a fresh BM25
// ranker built from the configured parameters, and returns an indented JSON
// result. Fetch tools return raw page or file content as text.
//
// # Tools
//
// search_docs ranks documentation pages against a keyword query:
//
//	{
//	  "query": "푸시 알림 권한",
//	  "limit": 5,
//	  "platform": "ios"
//	}
//
// returning pages with 1-based ranks and batch-relative scores:
//
//	{
//	  "query": "푸시 알림 권한",
//	  "total_indexed": 42,
//	  "from_snapshot": false,
//	  "fetched_at": "2026-08-30T09:00:00Z",
//	  "results": [
//	    {
//	      "page": {
//	        "title": "푸시 알림 권한 요청",
//	        "url": "https://docs.notifly.tech/sdk/ios/push-permission",
//	        "section": "iOS SDK"
//	      },
//	      "rank": 1,
//	      "score": 4.21
//	    }
//	  ]
//	}
//
// get_doc fetches the full markdown of one page; the URL must come from the
// documentation index, arbitrary URLs are refused.
//
// search_sdk_code ranks one platform's SDK source file index by file name and
// path. get_sdk_file fetches a single file's raw content by platform and
// path.
//
// list_platforms reports the SDK platforms the server is configured for, and
// get_status reports server build info, configured sources, and the snapshots
// currently stored for offline fallback.
//
// # Errors
//
// Handlers return *MCPError with JSON-RPC style codes: -32602 for invalid
// parameters, -32004 for an empty query, -32003 for an unknown platform,
// -32002 when a URL or path is not part of the index, -32001 when the
// upstream is unreachable and no snapshot exists, and -32603 for anything
// else.
//
// # Scoring notes
//
// Scores are only comparable within a single response. Every request indexes
// the current batch from scratch, so the same query can produce different
// scores as the upstream index changes. Ties keep index order, which is the
// order of the source document.
package mcp
