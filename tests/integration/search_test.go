package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifly-tech/notifly-mcp-server/internal/ranker"
	"github.com/notifly-tech/notifly-mcp-server/internal/source"
	"github.com/notifly-tech/notifly-mcp-server/internal/storage"
	"github.com/notifly-tech/notifly-mcp-server/pkg/types"
)

// docWeights mirror the default search_docs configuration.
var docWeights = map[string]float64{
	"title":       3.0,
	"description": 1.5,
	"section":     1.0,
	"url":         0.5,
}

const docIndex = `# Notifly

## 시작하기

- [Notifly 소개](%[1]s/docs/intro): Notifly 플랫폼 개요와 주요 기능
- [빠른 시작](%[1]s/docs/quickstart): SDK 설치부터 첫 캠페인 발송까지

## 푸시 알림

- [푸시 알림 보내기](%[1]s/docs/push/send): 캠페인과 API로 푸시 알림 발송
- [푸시 알림 권한 요청](%[1]s/docs/push/permission): 알림 권한 요청 시점과 처리
- [알림 클릭 추적](%[1]s/docs/push/click-tracking): 클릭 이벤트 수집과 전환 측정

## 인앱 메시지

- [인앱 메시지 시작하기](%[1]s/docs/in-app/intro): 인앱 메시지 캠페인 구성
`

type upstream struct {
	server  *httptest.Server
	failing atomic.Bool
	fetches atomic.Int32
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u.failing.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		if r.URL.Path == "/llms.txt" {
			u.fetches.Add(1)
			fmt.Fprintf(w, docIndex, u.server.URL)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func newCatalog(t *testing.T, u *upstream) *source.Catalog {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	retry := source.DefaultRetryConfig()
	retry.MaxRetries = 1
	retry.BaseDelay = time.Millisecond
	fetcher := source.NewFetcher(2*time.Second, retry)

	return source.NewCatalog(fetcher, store, source.Config{
		DocsIndexURL: u.server.URL + "/llms.txt",
		CacheTTL:     time.Millisecond,
	})
}

// searchPages runs the full search pipeline: batch from the catalog, fresh
// ranker over it, ids mapped back to pages.
func searchPages(t *testing.T, c *source.Catalog, query string, limit int) ([]types.DocPage, *source.DocBatch) {
	t.Helper()
	batch, err := c.DocPages(context.Background())
	require.NoError(t, err)

	docs := make([]ranker.Document, len(batch.Pages))
	for i, page := range batch.Pages {
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

	r := ranker.New(ranker.WithFieldWeights(docWeights))
	r.IndexDocuments(docs)

	var pages []types.DocPage
	for _, hit := range r.Search(query, limit) {
		idx, err := strconv.Atoi(hit.ID)
		require.NoError(t, err)
		pages = append(pages, batch.Pages[idx])
	}
	return pages, batch
}

func TestSearchPipeline(t *testing.T) {
	u := newUpstream(t)
	c := newCatalog(t, u)

	pages, batch := searchPages(t, c, "푸시 알림 권한", 10)
	require.NotEmpty(t, pages)
	assert.False(t, batch.FromSnapshot)
	assert.Len(t, batch.Pages, 6)

	// The permission page carries all three query terms in its title.
	assert.Equal(t, "푸시 알림 권한 요청", pages[0].Title)

	// Pages with no query term anywhere never appear.
	for _, page := range pages {
		assert.NotEqual(t, "인앱 메시지 시작하기", page.Title)
	}
}

func TestSearchSurvivesUpstreamOutage(t *testing.T) {
	u := newUpstream(t)
	c := newCatalog(t, u)

	before, batch := searchPages(t, c, "푸시 알림", 10)
	require.NotEmpty(t, before)
	require.False(t, batch.FromSnapshot)

	// Kill the upstream and let the 1ms cache expire; the next search must
	// serve the stored snapshot with identical ranking.
	u.failing.Store(true)
	time.Sleep(5 * time.Millisecond)

	after, batch := searchPages(t, c, "푸시 알림", 10)
	assert.True(t, batch.FromSnapshot)
	assert.Equal(t, before, after)
}

func TestSearchIsDeterministicAcrossFetches(t *testing.T) {
	u := newUpstream(t)
	c := newCatalog(t, u)

	first, _ := searchPages(t, c, "캠페인 발송", 10)
	require.NotEmpty(t, first)

	// Force a refetch of the identical index.
	time.Sleep(5 * time.Millisecond)
	second, _ := searchPages(t, c, "캠페인 발송", 10)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, u.fetches.Load(), int32(2))
}
