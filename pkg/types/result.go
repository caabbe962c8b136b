package types

// DocResult pairs a documentation page with its relevance information.
type DocResult struct {
	Page  DocPage `json:"page"`
	Rank  int     `json:"rank"`  // 1-based position in the result set
	Score float64 `json:"score"` // BM25 score, relative to this batch only
}

// FileResult pairs an SDK source file with its relevance information.
type FileResult struct {
	File  SDKFile `json:"file"`
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// Validate checks if the doc result is well-formed.
func (r *DocResult) Validate() error {
	if r.Rank < 1 {
		return ErrInvalidRank
	}
	if r.Score < 0 {
		return ErrNegativeScore
	}
	return r.Page.Validate()
}

// Validate checks if the file result is well-formed.
func (r *FileResult) Validate() error {
	if r.Rank < 1 {
		return ErrInvalidRank
	}
	if r.Score < 0 {
		return ErrNegativeScore
	}
	return r.File.Validate()
}
