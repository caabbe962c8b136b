package ranker

import (
	"math"
	"sort"
)

// Default BM25 parameters.
const (
	// DefaultK1 controls term frequency saturation.
	DefaultK1 = 1.5
	// DefaultB controls document length normalization; valid range [0, 1].
	DefaultB = 0.75
)

// Document is one indexable unit: an opaque identifier plus caller-defined
// named text fields. Not every document needs the same fields; absent fields
// simply contribute nothing to the score.
type Document struct {
	ID     string
	Fields map[string]string
}

// Result is a ranked hit. Score is relative to the batch and configuration it
// was computed against; it is not normalized and not comparable across
// batches.
type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Option configures a Ranker at construction time.
type Option func(*Ranker)

// WithK1 overrides the term frequency saturation parameter.
func WithK1(k1 float64) Option {
	return func(r *Ranker) { r.k1 = k1 }
}

// WithB overrides the length normalization strength. b=0 disables length
// normalization entirely; b=1 applies it fully.
func WithB(b float64) Option {
	return func(r *Ranker) { r.b = b }
}

// WithFieldWeights sets per-field score multipliers. Fields not present in
// the map keep the default weight of 1.0. The map is copied.
func WithFieldWeights(weights map[string]float64) Option {
	return func(r *Ranker) {
		r.weights = make(map[string]float64, len(weights))
		for name, w := range weights {
			r.weights[name] = w
		}
	}
}

// WithSegmenter replaces the default UAX#29 word segmenter, e.g. with
// SegmentRuneClass. Must be set before IndexDocuments; indexing and querying
// always share the same segmenter.
func WithSegmenter(s Segmenter) Option {
	return func(r *Ranker) { r.segment = s }
}

// indexedField holds one tokenized document field.
type indexedField struct {
	name     string
	termFreq map[string]int
	length   int // token count, duplicates included
}

// indexedDoc preserves batch insertion order; fields are sorted by name so
// that score summation order is fixed.
type indexedDoc struct {
	id     string
	fields []indexedField
}

// Ranker is a field-weighted BM25 index over the batch most recently passed
// to IndexDocuments. It holds no internal locking; use one instance per
// logical search session.
type Ranker struct {
	k1      float64
	b       float64
	weights map[string]float64
	segment Segmenter

	docs   []indexedDoc
	avgLen map[string]float64 // per field, over documents that have the field
	idf    map[string]float64 // per distinct term, computed once per batch
}

// New returns a Ranker with DefaultK1, DefaultB, weight 1.0 for every field,
// and UAX#29 segmentation, with opts applied on top. The core does not
// validate parameter ranges; callers own supplying sane values (the config
// layer rejects out-of-range parameters at load time).
func New(opts ...Option) *Ranker {
	r := &Ranker{
		k1:      DefaultK1,
		b:       DefaultB,
		segment: SegmentWords,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IndexDocuments tokenizes batch and replaces any previously held index.
// Empty or missing field text tokenizes to an empty sequence; an empty batch
// yields an index against which every search returns no results.
func (r *Ranker) IndexDocuments(batch []Document) {
	r.docs = make([]indexedDoc, 0, len(batch))

	lenSum := make(map[string]int)
	docCount := make(map[string]int) // documents that have the field at all
	df := make(map[string]int)       // documents containing the term, fields unioned

	for _, doc := range batch {
		idoc := indexedDoc{
			id:     doc.ID,
			fields: make([]indexedField, 0, len(doc.Fields)),
		}
		seen := make(map[string]struct{})
		for name, text := range doc.Fields {
			terms := r.tokenize(text)
			tf := make(map[string]int, len(terms))
			for _, t := range terms {
				tf[t]++
			}
			idoc.fields = append(idoc.fields, indexedField{
				name:     name,
				termFreq: tf,
				length:   len(terms),
			})
			lenSum[name] += len(terms)
			docCount[name]++
			for t := range tf {
				if _, ok := seen[t]; !ok {
					seen[t] = struct{}{}
					df[t]++
				}
			}
		}
		sort.Slice(idoc.fields, func(i, j int) bool {
			return idoc.fields[i].name < idoc.fields[j].name
		})
		r.docs = append(r.docs, idoc)
	}

	r.avgLen = make(map[string]float64, len(lenSum))
	for name, sum := range lenSum {
		r.avgLen[name] = float64(sum) / float64(docCount[name])
	}

	n := float64(len(batch))
	r.idf = make(map[string]float64, len(df))
	for term, count := range df {
		// Robertson-Spärck Jones "+1" variant: always >= 0, even for terms
		// present in every document. Deliberate; do not swap for the classic
		// formulation, which goes negative past df > N/2.
		r.idf[term] = math.Log((n-float64(count)+0.5)/(float64(count)+0.5) + 1)
	}
}

// Search tokenizes query and scores every indexed document, returning hits
// ordered by score descending, truncated to maxResults. Documents with a
// total score of exactly zero are omitted. Ties keep batch insertion order:
// the candidate slice is built in that order and the sort is stable, so the
// same batch and query always produce identical output. An empty or
// fully-filtered query, or maxResults <= 0, returns an empty list.
func (r *Ranker) Search(query string, maxResults int) []Result {
	if maxResults <= 0 {
		return []Result{}
	}
	terms := r.tokenize(query)
	if len(terms) == 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(r.docs))
	for _, doc := range r.docs {
		var total float64
		for _, field := range doc.fields {
			avg := r.avgLen[field.name]
			if avg == 0 {
				// Field had no tokens anywhere in the batch; fall back to raw
				// term frequency rather than divide by zero.
				avg = 1
			}
			lengthNorm := r.k1 * (1 - r.b + r.b*float64(field.length)/avg)
			var fieldScore float64
			// Query terms are scored as given: a term repeated in the query
			// compounds its contribution.
			for _, term := range terms {
				tf := float64(field.termFreq[term])
				if tf == 0 {
					continue
				}
				fieldScore += r.idf[term] * (tf * (r.k1 + 1)) / (tf + lengthNorm)
			}
			total += r.fieldWeight(field.name) * fieldScore
		}
		if total > 0 {
			results = append(results, Result{ID: doc.id, Score: total})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func (r *Ranker) fieldWeight(name string) float64 {
	if w, ok := r.weights[name]; ok {
		return w
	}
	return 1.0
}
