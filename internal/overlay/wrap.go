package overlay

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks text into lines of at most width cells using a greedy rule.
// Words are never split: a word wider than width gets a line of its own.
// Existing newlines are kept as hard breaks. Width is counted in terminal
// cells, so Latin text counts one per character and wide CJK runes two.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := words[0]
		lineWidth := runewidth.StringWidth(line)
		for _, word := range words[1:] {
			w := runewidth.StringWidth(word)
			if lineWidth+1+w > width {
				lines = append(lines, line)
				line, lineWidth = word, w
				continue
			}
			line += " " + word
			lineWidth += 1 + w
		}
		lines = append(lines, line)
	}
	return lines
}

// Fill is Wrap joined back into a single string.
func Fill(text string, width int) string {
	return strings.Join(Wrap(text, width), "\n")
}
