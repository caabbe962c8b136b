// Package source fetches and parses the remote inputs of the server: the
// documentation index and the per-platform SDK source file indexes.
//
// The Catalog is the entry point. It layers three mechanisms in front of the
// network so tool handlers can ask for a document batch without caring where
// it came from:
//
//  1. An in-memory LRU cache with a TTL, so repeated queries within a short
//     window reuse the parsed batch.
//  2. An HTTP fetcher with exponential-backoff retry.
//  3. A SQLite snapshot store holding the last successful fetch of each
//     source, used as a fallback when the network fails and refreshed after
//     every successful fetch.
//
// Indexes are llms.txt-style markdown link lists; see IndexParser for the
// shape. Parsed entries are plain values from pkg/types; ranking them is the
// caller's job.
package source
