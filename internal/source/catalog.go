package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/notifly-tech/notifly-mcp-server/internal/storage"
	"github.com/notifly-tech/notifly-mcp-server/pkg/types"
)

const (
	// DefaultCacheTTL is how long a fetched batch is served from memory
	// before the upstream is consulted again
	DefaultCacheTTL = 5 * time.Minute

	// docsKey is the cache/snapshot key of the documentation index
	docsKey = "docs"

	// cacheSize covers the doc index plus every platform index with room to
	// spare
	cacheSize = 16
)

var (
	// ErrPageNotFound is returned when a URL is not part of the doc index
	ErrPageNotFound = errors.New("page not in documentation index")
	// ErrFileNotFound is returned when a path is not part of an SDK index
	ErrFileNotFound = errors.New("file not in SDK index")
)

// DocBatch is the documentation index as of one fetch. FromSnapshot is true
// when the upstream was unreachable and the batch came from the last stored
// snapshot.
type DocBatch struct {
	Pages        []types.DocPage
	FetchedAt    time.Time
	FromSnapshot bool
}

// FileBatch is one platform's SDK file index as of one fetch.
type FileBatch struct {
	Platform     types.Platform
	Files        []types.SDKFile
	FetchedAt    time.Time
	FromSnapshot bool
}

// cacheEntry holds either kind of batch with its expiry.
type cacheEntry struct {
	doc       *DocBatch
	files     *FileBatch
	expiresAt time.Time
}

// Config locates the remote sources a Catalog serves.
type Config struct {
	// DocsIndexURL is the llms.txt-style documentation index.
	DocsIndexURL string
	// SDKIndexURLs maps each platform to its file index.
	SDKIndexURLs map[types.Platform]string
	// CacheTTL bounds in-memory reuse of a fetched batch; zero means
	// DefaultCacheTTL.
	CacheTTL time.Duration
}

// Catalog answers "give me the current document batch" for each source,
// layering an in-memory TTL cache, the HTTP fetcher, and the snapshot store.
type Catalog struct {
	fetcher *Fetcher
	store   storage.Store
	cfg     Config

	cacheMu sync.Mutex
	cache   *lru.Cache[string, *cacheEntry]
	clock   func() time.Time
}

// NewCatalog creates a Catalog over the given fetcher and snapshot store.
func NewCatalog(fetcher *Fetcher, store storage.Store, cfg Config) *Catalog {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	cache, err := lru.New[string, *cacheEntry](cacheSize)
	if err != nil {
		// Only reachable with an invalid size constant
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &Catalog{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		cache:   cache,
		clock:   time.Now,
	}
}

// DocPages returns the documentation index, fetching it if the cached copy
// has expired and falling back to the snapshot store when the fetch fails.
func (c *Catalog) DocPages(ctx context.Context) (*DocBatch, error) {
	if entry := c.cached(docsKey); entry != nil {
		return entry.doc, nil
	}

	fetched, err := c.fetcher.Fetch(ctx, c.cfg.DocsIndexURL)
	if err != nil {
		batch, snapErr := c.docsFromSnapshot(ctx)
		if snapErr != nil {
			// The fetch error names the real problem; the snapshot miss is
			// secondary.
			return nil, err
		}
		c.storeCache(docsKey, &cacheEntry{doc: batch})
		return batch, nil
	}

	batch := &DocBatch{
		Pages:     ParseDocIndex(fetched.Body),
		FetchedAt: c.clock(),
	}
	c.snapshot(ctx, docsKey, batch.Pages, fetched.ETag, batch.FetchedAt)
	c.storeCache(docsKey, &cacheEntry{doc: batch})
	return batch, nil
}

// SDKFiles returns one platform's SDK file index, with the same cache,
// fetch, and snapshot-fallback behavior as DocPages.
func (c *Catalog) SDKFiles(ctx context.Context, platform types.Platform) (*FileBatch, error) {
	url, ok := c.cfg.SDKIndexURLs[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownPlatform, platform)
	}
	key := sdkKey(platform)

	if entry := c.cached(key); entry != nil {
		return entry.files, nil
	}

	fetched, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		batch, snapErr := c.filesFromSnapshot(ctx, platform)
		if snapErr != nil {
			return nil, err
		}
		c.storeCache(key, &cacheEntry{files: batch})
		return batch, nil
	}

	batch := &FileBatch{
		Platform:  platform,
		Files:     ParseSDKIndex(platform, fetched.Body),
		FetchedAt: c.clock(),
	}
	c.snapshot(ctx, key, batch.Files, fetched.ETag, batch.FetchedAt)
	c.storeCache(key, &cacheEntry{files: batch})
	return batch, nil
}

// PageContent fetches the markdown body of one documentation page. The URL
// must be part of the current doc index; arbitrary URLs are refused.
func (c *Catalog) PageContent(ctx context.Context, url string) ([]byte, error) {
	batch, err := c.DocPages(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, page := range batch.Pages {
		if page.URL == url {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, url)
	}

	fetched, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return fetched.Body, nil
}

// FileContent fetches the raw content of one SDK source file, addressed by
// its repository-relative path within the platform's index.
func (c *Catalog) FileContent(ctx context.Context, platform types.Platform, filePath string) ([]byte, error) {
	batch, err := c.SDKFiles(ctx, platform)
	if err != nil {
		return nil, err
	}
	var url string
	for _, file := range batch.Files {
		if file.Path == filePath {
			url = file.URL
			break
		}
	}
	if url == "" {
		return nil, fmt.Errorf("%w: %s/%s", ErrFileNotFound, platform, filePath)
	}

	fetched, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return fetched.Body, nil
}

// RefreshAll fetches every configured source concurrently, warming the cache
// and the snapshot store. Sources are independent; the first error is
// returned after all fetches finish.
func (c *Catalog) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		_, err := c.DocPages(ctx)
		return err
	})
	for platform := range c.cfg.SDKIndexURLs {
		g.Go(func() error {
			_, err := c.SDKFiles(ctx, platform)
			return err
		})
	}
	return g.Wait()
}

// Snapshots exposes the stored snapshots for status reporting.
func (c *Catalog) Snapshots(ctx context.Context) ([]*storage.Snapshot, error) {
	return c.store.ListSnapshots(ctx)
}

// Platforms lists the platforms this catalog is configured for, in stable
// order.
func (c *Catalog) Platforms() []types.Platform {
	var platforms []types.Platform
	for _, p := range types.AllPlatforms {
		if _, ok := c.cfg.SDKIndexURLs[p]; ok {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

func sdkKey(platform types.Platform) string {
	return "sdk/" + string(platform)
}

// cached returns the unexpired cache entry for key, if any.
func (c *Catalog) cached(key string) *cacheEntry {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	entry, found := c.cache.Get(key)
	if !found {
		return nil
	}
	if c.clock().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil
	}
	return entry
}

func (c *Catalog) storeCache(key string, entry *cacheEntry) {
	entry.expiresAt = c.clock().Add(c.cfg.CacheTTL)
	c.cacheMu.Lock()
	c.cache.Add(key, entry)
	c.cacheMu.Unlock()
}

// snapshot persists a successful fetch; failures here only cost offline
// fallback, so they do not fail the request.
func (c *Catalog) snapshot(ctx context.Context, key string, entries any, etag string, fetchedAt time.Time) {
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	_ = c.store.PutSnapshot(ctx, &storage.Snapshot{
		Source:    key,
		Payload:   payload,
		ETag:      etag,
		FetchedAt: fetchedAt,
	})
}

func (c *Catalog) docsFromSnapshot(ctx context.Context) (*DocBatch, error) {
	snap, err := c.store.GetSnapshot(ctx, docsKey)
	if err != nil {
		return nil, err
	}
	var pages []types.DocPage
	if err := json.Unmarshal(snap.Payload, &pages); err != nil {
		return nil, fmt.Errorf("corrupt docs snapshot: %w", err)
	}
	return &DocBatch{
		Pages:        pages,
		FetchedAt:    snap.FetchedAt,
		FromSnapshot: true,
	}, nil
}

func (c *Catalog) filesFromSnapshot(ctx context.Context, platform types.Platform) (*FileBatch, error) {
	snap, err := c.store.GetSnapshot(ctx, sdkKey(platform))
	if err != nil {
		return nil, err
	}
	var files []types.SDKFile
	if err := json.Unmarshal(snap.Payload, &files); err != nil {
		return nil, fmt.Errorf("corrupt SDK snapshot: %w", err)
	}
	return &FileBatch{
		Platform:     platform,
		Files:        files,
		FetchedAt:    snap.FetchedAt,
		FromSnapshot: true,
	}, nil
}
