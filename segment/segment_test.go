package segment

import (
	"strings"
	"testing"

	"github.com/poiesic/casesearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentenceSegmenter_Split(t *testing.T) {
	seg := NewSentenceSegmenter()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminators",
			text: "The witness arrived. Did she testify? Yes!",
			want: []string{"The witness arrived.", "Did she testify?", "Yes!"},
		},
		{
			name: "trailing text without terminator",
			text: "First sentence. trailing clause",
			want: []string{"First sentence.", "trailing clause"},
		},
		{
			name: "no terminators",
			text: "heading only",
			want: []string{"heading only"},
		},
		{
			name: "whitespace",
			text: "   \n  ",
			want: nil,
		},
		{
			name: "punctuation only",
			text: "...",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seg.Split(tt.text))
		})
	}
}

func TestRecursiveSegmenter_Split(t *testing.T) {
	seg := NewRecursiveSegmenter(40, 0)
	text := strings.Repeat("alpha beta gamma delta. ", 10)

	chunks := seg.Split(text)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 40)
		assert.Equal(t, strings.TrimSpace(c), c)
	}
}

func TestSplitPage_FallsBackToLines(t *testing.T) {
	seg := stubSegmenter{}
	got := SplitPage(seg, "line one\n\n  line two  \n")
	assert.Equal(t, []string{"line one", "line two"}, got)

	assert.Empty(t, SplitPage(seg, "\n \n"))
}

func TestSplitPage_UsesSegmenter(t *testing.T) {
	got := SplitPage(NewSentenceSegmenter(), "One. Two.\nThree.")
	assert.Equal(t, []string{"One.", "Two.", "Three."}, got)
}

func TestNew(t *testing.T) {
	seg, err := New(KindSentence, 0, 0)
	require.NoError(t, err)
	assert.IsType(t, &SentenceSegmenter{}, seg)

	seg, err = New(KindRecursive, 100, 10)
	require.NoError(t, err)
	assert.IsType(t, &RecursiveSegmenter{}, seg)

	_, err = New("nltk", 0, 0)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

type stubSegmenter struct{}

func (stubSegmenter) Split(string) []string { return nil }
