package diag

import (
	"strings"

	"github.com/jsonmend/jsonmend/position"
)

// DefaultSnippetRadius is used when a caller passes radius <= 0.
const DefaultSnippetRadius = 40

// Snippet builds a diagnostic snippet per spec.md §4.8. line/col are
// 1-based; a zero line means "no location available", in which case a
// plain preview of the text is returned instead.
func Snippet(idx *position.LineIndex, text string, line, col, radius int) string {
	if radius <= 0 {
		radius = DefaultSnippetRadius
	}
	if line <= 0 {
		return preview(text, 2*radius)
	}

	lineText := idx.LineText(line - 1)
	caret := col
	if caret < 1 {
		caret = 1
	}
	if caret > len(lineText)+1 {
		caret = len(lineText) + 1
	}
	// skip forward to the first non-whitespace if the caret lands on whitespace
	for caret-1 < len(lineText) && isSpaceByte(lineText[caret-1]) {
		caret++
	}

	if len(lineText) <= 2*radius {
		return lineText + "\n" + caretPrefix(lineText, caret) + "^"
	}

	start := caret - 1 - radius
	if start < 0 {
		start = 0
	}
	end := caret - 1 + radius
	if end > len(lineText) {
		end = len(lineText)
	}
	slice := lineText[start:end]
	return slice + "\n" + caretPrefix(lineText[start:], caret-start) + "^"
}

func preview(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen]
}

// caretPrefix builds the whitespace prefix preceding the caret position,
// mirroring tabs/spaces of the source line so the caret lines up visually:
// tabs are preserved, every other character becomes a space.
func caretPrefix(lineText string, caret int) string {
	n := caret - 1
	if n < 0 {
		n = 0
	}
	if n > len(lineText) {
		n = len(lineText)
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		if lineText[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t'
}
