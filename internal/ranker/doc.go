// Package ranker implements field-weighted BM25 relevance ranking over small
// in-memory document batches.
//
// A Ranker is built fresh for each logical search: the caller hands it a batch
// of documents (each a map of field name to raw text), then runs one or more
// queries against that batch. There is no persistence and no incremental
// update; IndexDocuments replaces the entire index.
//
// # Basic Usage
//
//	r := ranker.New(
//	    ranker.WithFieldWeights(map[string]float64{
//	        "title":       3.0,
//	        "description": 1.5,
//	    }),
//	)
//
//	r.IndexDocuments([]ranker.Document{
//	    {ID: "doc-1", Fields: map[string]string{
//	        "title":       "iOS Push Notification Setup",
//	        "description": "Complete guide",
//	    }},
//	})
//
//	for _, hit := range r.Search("push notification", 10) {
//	    fmt.Printf("%s %.3f\n", hit.ID, hit.Score)
//	}
//
// # Scoring
//
// Each field of each document is scored independently with BM25 and the
// per-field scores are combined into the document total after applying the
// configured field weight (1.0 for unconfigured fields):
//
//	score(doc) = Σ_field weight(field) × Σ_term IDF(term) × tf·(k1+1) / (tf + k1·(1-b+b·len/avgLen))
//
// IDF uses the non-negative Robertson-Spärck Jones "+1" variant,
// ln((N-df+0.5)/(df+0.5) + 1), so very common terms never contribute negative
// weight. Documents whose total is exactly zero are omitted from results
// rather than ranked last.
//
// # Tokenization
//
// Document fields and queries go through the same pipeline: NFKC Unicode
// normalization, lowercasing, UAX#29 word segmentation, a further split of
// each segment on non-alphanumeric runes (so "PushManager.swift" yields
// "pushmanager" and "swift"), then a filter that drops punctuation-only
// segments and single-character Latin noise while keeping single CJK/Hangul
// ideographs (which are meaningful tokens on their own). A rune-class
// fallback segmenter is available for environments where the UAX#29 path is
// not wanted; both produce identical tokens for ASCII text.
//
// # Concurrency
//
// A Ranker holds no locks and no process-wide state. Use one instance per
// logical search; independent instances may be used concurrently.
package ranker
