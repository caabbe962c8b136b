package ranker

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"golang.org/x/text/unicode/norm"
)

// Segmenter splits normalized text into candidate token segments. Segments
// are filtered afterwards, so a Segmenter may emit whitespace or punctuation
// runs without affecting results.
type Segmenter func(text string) []string

// SegmentWords splits text on UAX#29 word boundaries. This is the default
// strategy: it isolates CJK ideographs as individual segments and keeps
// Hangul and Latin words intact.
func SegmentWords(text string) []string {
	iter := words.FromString(text)
	var segs []string
	for iter.Next() {
		segs = append(segs, iter.Value())
	}
	return segs
}

// SegmentRuneClass is the fallback strategy: every rune that is not a Unicode
// letter or number becomes a separator, and runs of CJK/Hangul/Japanese
// runes are additionally split into single runes so that ideographic text
// remains searchable without a word segmenter. tokenize splits every segment
// on non-alphanumeric runes afterwards, so on ASCII input both strategies
// produce the same terms.
func SegmentRuneClass(text string) []string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, r := range text {
		switch {
		case isIdeographic(r):
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

// tokenize normalizes raw text and returns its ordered terms. Duplicates are
// kept; sequence length feeds BM25 length normalization. Documents and
// queries must go through this same path or their scores are not comparable.
//
// Each segment is split again on non-alphanumeric runes before filtering.
// UAX#29 keeps "." and "_" joiners inside words, which would leave
// "PushManager.swift" or "user_id" as single terms no short query could
// reach; the extra split makes file names searchable by their parts and
// keeps both segmentation strategies in agreement on Latin text.
func (r *Ranker) tokenize(text string) []string {
	normalized := strings.ToLower(norm.NFKC.String(text))
	var terms []string
	for _, seg := range r.segment(normalized) {
		for _, run := range splitAlnumRuns(seg) {
			if keepToken(run) {
				terms = append(terms, run)
			}
		}
	}
	return terms
}

// splitAlnumRuns breaks a segment into maximal runs of letters and numbers.
func splitAlnumRuns(seg string) []string {
	return strings.FieldsFunc(seg, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// keepToken decides whether a segment survives filtering. Segments with no
// letter or number are dropped. Segments composed entirely of
// CJK/Hangul/Japanese runes are kept at any length; everything else needs at
// least two runes, which drops single Latin letters and similar noise.
func keepToken(seg string) bool {
	runeCount := 0
	hasAlnum := false
	allIdeographic := true
	for _, r := range seg {
		runeCount++
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			hasAlnum = true
		}
		if !isIdeographic(r) {
			allIdeographic = false
		}
	}
	if runeCount == 0 || !hasAlnum {
		return false
	}
	if allIdeographic {
		return true
	}
	return runeCount >= 2
}

// isIdeographic reports whether r belongs to a script where a single
// character is a meaningful token.
func isIdeographic(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hangul, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r)
}
