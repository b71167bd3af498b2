package overlay

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected []string
	}{
		{
			name:     "fits on one line",
			text:     "the quick brown fox",
			width:    40,
			expected: []string{"the quick brown fox"},
		},
		{
			name:     "greedy break",
			text:     "the quick brown fox jumps",
			width:    10,
			expected: []string{"the quick", "brown fox", "jumps"},
		},
		{
			name:     "exact fit",
			text:     "aaaa bbbb",
			width:    9,
			expected: []string{"aaaa bbbb"},
		},
		{
			name:     "long word is not split",
			text:     "a supercalifragilistic word",
			width:    8,
			expected: []string{"a", "supercalifragilistic", "word"},
		},
		{
			name:     "collapses whitespace",
			text:     "  spaced \t out   words ",
			width:    80,
			expected: []string{"spaced out words"},
		},
		{
			name:     "keeps hard breaks",
			text:     "first paragraph\n\nsecond",
			width:    80,
			expected: []string{"first paragraph", "", "second"},
		},
		{
			name:     "empty",
			text:     "",
			width:    10,
			expected: []string{""},
		},
		{
			name:     "zero width acts as one",
			text:     "a b",
			width:    0,
			expected: []string{"a", "b"},
		},
		{
			name:     "wide runes count double",
			text:     "宇宙 星雲 銀河",
			width:    9,
			expected: []string{"宇宙 星雲", "銀河"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Wrap(tt.text, tt.width))
		})
	}
}

func TestWrapNeverExceedsWidthUnlessSingleWord(t *testing.T) {
	text := strings.Repeat("Hubble captured this view of a spiral galaxy in the constellation Virgo. ", 12)

	for _, width := range []int{1, 5, 17, 40, 66, 160} {
		for _, line := range Wrap(text, width) {
			if runewidth.StringWidth(line) > width {
				assert.NotContains(t, line, " ", "width %d: multi-word line %q exceeds budget", width, line)
			}
		}
	}
}

func TestFillIsIdempotent(t *testing.T) {
	texts := []string{
		"Towering tendrils of cosmic dust and gas sit at the heart of M16, or the Eagle Nebula.",
		"Short",
		"Line one\nLine two is a good deal longer than line one\n\nAfter a blank",
		"averyveryverylongwordthatcannotbebroken followed by small words",
	}

	for _, text := range texts {
		for _, width := range []int{1, 8, 20, 33, 160} {
			once := Fill(text, width)
			twice := Fill(once, width)
			assert.Equal(t, once, twice, "width %d", width)
		}
	}
}

func TestWrapPreservesWords(t *testing.T) {
	text := "Saturn's rings shine in ultraviolet light as seen by Cassini"
	for _, width := range []int{3, 10, 25} {
		joined := strings.Join(Wrap(text, width), " ")
		assert.Equal(t, strings.Fields(text), strings.Fields(joined))
	}
}
