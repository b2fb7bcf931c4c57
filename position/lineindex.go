package position

import "sort"

// LineIndex precomputes the byte offset of every line start in a document,
// so that (line, column) <-> offset conversions run in O(log n) instead of
// rescanning the text. The teacher (sourcemapper/ino.go, handler/textutils)
// always rescans linearly because LSP documents are edited rarely and the
// teacher never needs repeated conversions in a hot loop; the incremental
// engine here does (every splice needs fresh offset<->position math), so the
// index is worth the extra bookkeeping.
type LineIndex struct {
	text       string
	lineStarts []int // lineStarts[i] is the byte offset of the first byte of line i
}

// NewLineIndex scans text once and records the offset of the start of every
// line. Line endings are treated as \n; callers that care about CRLF should
// normalize line endings (sanitize.Switches.NormalizeLineEndings) before
// indexing, matching parse's pre-normalization stage.
func NewLineIndex(text string) *LineIndex {
	starts := make([]int, 1, 16)
	starts[0] = 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, lineStarts: starts}
}

// LineCount returns the number of lines in the indexed text.
func (idx *LineIndex) LineCount() int {
	return len(idx.lineStarts)
}

// Position converts a byte offset into a Position. Offsets beyond the end
// of the text clamp to the final position.
func (idx *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.text) {
		offset = len(idx.text)
	}
	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return Position{
		Line:   line,
		Column: offset - idx.lineStarts[line],
		Offset: offset,
	}
}

// Offset converts a (line, column) pair into a byte offset. A line beyond
// the end of the text clamps to the text length; a negative line clamps to
// the start; a column beyond the line's length clamps to the line's end
// (the offset of its '\n').
func (idx *LineIndex) Offset(line, column int) int {
	if line < 0 {
		return 0
	}
	if line >= len(idx.lineStarts) {
		return len(idx.text)
	}
	lineStart := idx.lineStarts[line]
	lineEnd := len(idx.text)
	if line+1 < len(idx.lineStarts) {
		lineEnd = idx.lineStarts[line+1] - 1
	}
	offset := lineStart + column
	if offset > lineEnd {
		offset = lineEnd
	}
	return offset
}

// LineStart returns the byte offset of the first byte of the given line.
func (idx *LineIndex) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(idx.lineStarts) {
		return len(idx.text)
	}
	return idx.lineStarts[line]
}

// LineText returns the raw text of the given line, excluding its trailing
// newline.
func (idx *LineIndex) LineText(line int) string {
	start := idx.LineStart(line)
	end := len(idx.text)
	if line+1 < len(idx.lineStarts) {
		end = idx.lineStarts[line+1] - 1 // exclude '\n'
		if end > 0 && end <= len(idx.text) && idx.text[end-1] == '\r' {
			end--
		}
	}
	if start > end {
		start = end
	}
	return idx.text[start:end]
}
