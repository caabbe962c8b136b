// Package storage persists the last successful fetch of each remote source.
//
// The server fetches documentation and SDK file indexes at request time; when
// an upstream fetch fails, the catalog falls back to the snapshot stored
// here, so a previously reachable source keeps answering queries offline.
// Snapshots are keyed by source ("docs", "sdk/ios", ...) and hold the parsed
// entries as JSON together with the fetch time and upstream ETag.
//
// Two SQLite drivers are supported via build tags: the default pure Go
// modernc.org/sqlite build, and a cgo build using mattn/go-sqlite3 selected
// with -tags sqlite_cgo. See build_purego.go and build_cgo.go.
package storage
