package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasics(t *testing.T) {
	r := New()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Push-Notification Setup: iOS!",
			want: []string{"push", "notification", "setup", "ios"},
		},
		{
			name: "keeps duplicates in order",
			text: "push push pull push",
			want: []string{"push", "push", "pull", "push"},
		},
		{
			name: "drops single latin letters",
			text: "a book on C",
			want: []string{"book", "on"},
		},
		{
			name: "drops pure punctuation",
			text: "-- ?! ... //",
			want: nil,
		},
		{
			name: "keeps numbers",
			text: "sdk v2 api 30 요금",
			want: []string{"sdk", "v2", "api", "30", "요금"},
		},
		{
			name: "splits file names on dot and underscore",
			text: "PushManager.swift user_id",
			want: []string{"pushmanager", "swift", "user", "id"},
		},
		{
			name: "splits paths into segments",
			text: "sdk/ios/NotiflySdk.swift",
			want: []string{"sdk", "ios", "notiflysdk", "swift"},
		},
		{
			name: "NFKC folds fullwidth forms",
			text: "Ｐｕｓｈ　Ｎｏｔｉｆｉｃａｔｉｏｎ",
			want: []string{"push", "notification"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.tokenize(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeHangul(t *testing.T) {
	r := New()
	// Hangul syllable runs stay whole under UAX#29 word boundaries.
	assert.Equal(t, []string{"푸시", "알림"}, r.tokenize("푸시 알림"))
}

func TestTokenizeHanSingles(t *testing.T) {
	r := New()
	// Han ideographs segment one per token and survive the length filter.
	assert.Equal(t, []string{"中", "文", "文", "档"}, r.tokenize("中文 文档"))
}

func TestSegmenterParityOnASCII(t *testing.T) {
	// The fallback segmenter must produce the same tokens as the UAX#29 path
	// for Latin/ASCII text; CJK behavior is allowed to differ.
	corpus := []string{
		"iOS Push Notification Setup",
		"Complete guide to in-app messaging",
		"sdk/ios/NotiflySdk.swift",
		"user_id device-token  42",
		"....   punctuation,, only?!",
		"",
		"mixed CASE And  Spacing",
	}

	primary := New()
	fallback := New(WithSegmenter(SegmentRuneClass))

	for _, text := range corpus {
		assert.Equal(t, primary.tokenize(text), fallback.tokenize(text),
			"segmenters disagree on %q", text)
	}
}

func TestFileNamePartsSearchable(t *testing.T) {
	// A file name like PushManager.swift must be reachable by queries for
	// either part, not only by the whole dotted token.
	r := New(WithFieldWeights(map[string]float64{"name": 3.0, "path": 1.0}))
	r.IndexDocuments([]Document{
		{ID: "push", Fields: map[string]string{
			"name": "PushManager.swift",
			"path": "Sources/Notifly/Push/PushManager.swift",
		}},
		{ID: "client", Fields: map[string]string{
			"name": "Client.swift",
			"path": "Sources/Notifly/Core/Client.swift",
		}},
	})

	hits := r.Search("pushmanager", 10)
	require.Len(t, hits, 1)
	assert.Equal(t, "push", hits[0].ID)

	hits = r.Search("swift", 10)
	assert.Len(t, hits, 2)
}

func TestFallbackSegmenterSplitsIdeographs(t *testing.T) {
	// Without a word segmenter, CJK runs split into single runes so
	// ideographic queries still match. This intentionally splits Hangul
	// words too; both sides of a search share one strategy, so matching is
	// unaffected.
	r := New(WithSegmenter(SegmentRuneClass))
	assert.Equal(t, []string{"푸", "시", "알", "림"}, r.tokenize("푸시 알림"))

	r.IndexDocuments([]Document{
		{ID: "ko", Fields: map[string]string{"title": "푸시 알림"}},
	})
	hits := r.Search("알림", 10)
	require.Len(t, hits, 1)
	assert.Equal(t, "ko", hits[0].ID)
}

func TestKeepToken(t *testing.T) {
	tests := []struct {
		seg  string
		keep bool
	}{
		{"push", true},
		{"v2", true},
		{"a", false},
		{"x", false},
		{"--", false},
		{" ", false},
		{"", false},
		{"알", true},  // single Hangul syllable
		{"中", true},  // single Han ideograph
		{"ー", false}, // prolonged sound mark is script Common, so the two-rune minimum applies
		{"ab", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.keep, keepToken(tt.seg), "segment %q", tt.seg)
	}
}
