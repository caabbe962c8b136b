// Package types provides shared type definitions for the Notifly MCP server.
//
// This package defines the domain types exchanged between the source layer
// (which fetches and parses documentation and SDK file indexes) and the MCP
// tool handlers (which rank them and format results).
//
// # Core Types
//
// DocPage is one entry of the documentation index:
//
//	page := types.DocPage{
//	    Title:       "iOS Push Notification Setup",
//	    Description: "Register for APNs and configure the SDK",
//	    URL:         "https://docs.notifly.tech/sdk/ios/push",
//	    Section:     "Client SDK",
//	}
//
// SDKFile is one entry of a per-platform SDK source file index:
//
//	file := types.SDKFile{
//	    Platform: types.PlatformIOS,
//	    Path:     "Sources/Notifly/NotiflyMessaging.swift",
//	    Name:     "NotiflyMessaging.swift",
//	    URL:      "https://raw.githubusercontent.com/.../NotiflyMessaging.swift",
//	}
//
// # Search Results
//
// DocResult and FileResult pair an entry with its BM25 relevance score and a
// 1-based rank. Scores are relative to a single ranked batch; they are not
// normalized and not comparable across requests or configurations.
package types
