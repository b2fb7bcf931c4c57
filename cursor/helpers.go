package cursor

import (
	"strconv"
	"strings"

	"github.com/jsonmend/jsonmend/jsonvalue"
	"github.com/jsonmend/jsonmend/position"
	"github.com/pkg/errors"
)

// indentUnit is the single indentation step InsertProperty adds on top of
// the object's own line indentation. InsertArrayItem inserts inline and
// does not indent.
const indentUnit = "  "

// segment is one step of a dotted/bracketed JSON path, matching the
// format pathmap.Build emits: a property name, or an array index.
type segment struct {
	name    string
	isIndex bool
	index   int
}

func (s segment) appendTo(path string) string {
	if s.isIndex {
		return path + "[" + strconv.Itoa(s.index) + "]"
	}
	if path == "" {
		return s.name
	}
	return path + "." + s.name
}

// splitPath parses a path of the form "a.b[0].c" into its segments.
func splitPath(path string) []segment {
	var segs []segment
	i, n := 0, len(path)
	for i < n {
		if path[i] == '[' {
			j := i + 1
			for j < n && path[j] != ']' {
				j++
			}
			idx, _ := strconv.Atoi(path[i+1 : j])
			segs = append(segs, segment{isIndex: true, index: idx})
			i = j + 1
			continue
		}
		j := i
		for j < n && path[j] != '.' && path[j] != '[' {
			j++
		}
		segs = append(segs, segment{name: path[i:j]})
		i = j
		if i < n && path[i] == '.' {
			i++
		}
	}
	return segs
}

// lastSegment returns the trailing property name of path, or "" if path's
// last segment is an index (callers only call this for Property cursors).
func lastSegment(path string) string {
	segs := splitPath(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1].name
}

// offsetRange converts a [start, end) byte span into a position.Range by
// building a fresh LineIndex over text. Cursor operations are not on the
// hot path (spec.md §4.6 edits splice text directly rather than
// re-parsing), so recomputing the index per call is acceptable.
func offsetRange(text string, start, end int) position.Range {
	idx := position.NewLineIndex(text)
	return position.Range{Start: idx.Position(start), End: idx.Position(end)}
}

// lineStartOffset returns the offset of the first byte of the line
// containing offset.
func lineStartOffset(text string, offset int) int {
	i := strings.LastIndexByte(text[:offset], '\n')
	return i + 1
}

// lineIndent returns the leading run of spaces/tabs on the line
// containing offset.
func lineIndent(text string, offset int) string {
	start := lineStartOffset(text, offset)
	i := start
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return text[start:i]
}

// skipString returns the offset immediately after the closing quote of
// the string literal starting at quoteOffset (which must point at the
// opening '"'), tolerating backslash escapes.
func skipString(text string, quoteOffset int) (int, error) {
	if quoteOffset >= len(text) || text[quoteOffset] != '"' {
		return 0, errors.Errorf("cursor: expected '\"' at offset %d", quoteOffset)
	}
	i := quoteOffset + 1
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1, nil
		}
		i++
	}
	return 0, errors.New("cursor: unterminated string literal")
}

// forwardSkip implements spec.md §4.6's "forward scanner that skips
// whitespace and comments".
func forwardSkip(text string, i int) int {
	for i < len(text) {
		switch {
		case text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r':
			i++
		case strings.HasPrefix(text[i:], "//"):
			j := strings.IndexByte(text[i:], '\n')
			if j < 0 {
				return len(text)
			}
			i += j
		case strings.HasPrefix(text[i:], "/*"):
			j := strings.Index(text[i+2:], "*/")
			if j < 0 {
				return len(text)
			}
			i += j + 4
		default:
			return i
		}
	}
	return i
}

// matchBracket implements spec.md §4.6's "structural brace/bracket
// matcher that tolerates strings with escapes": openOffset must point at
// open; returns the offset of the matching close at the same depth.
func matchBracket(text string, openOffset int, open, close byte) (int, error) {
	if openOffset >= len(text) || text[openOffset] != open {
		return 0, errors.Errorf("cursor: expected %q at offset %d", open, openOffset)
	}
	depth := 0
	i := openOffset
	for i < len(text) {
		switch text[i] {
		case '"':
			end, err := skipString(text, i)
			if err != nil {
				return 0, err
			}
			i = end
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
		i++
	}
	return 0, errors.New("cursor: unmatched bracket")
}

// valueEnd implements spec.md §4.6's "JSON-value end finder": scans a
// single JSON value starting at start and returns the offset immediately
// past it, stopping at a comma or a closer at the value's own nesting
// depth and tolerating strings with escapes.
func valueEnd(text string, start int) (int, error) {
	i := forwardSkip(text, start)
	if i >= len(text) {
		return 0, errors.New("cursor: value end: unexpected end of input")
	}
	if text[i] == '"' {
		return skipString(text, i)
	}
	depth := 0
	for i < len(text) {
		switch text[i] {
		case '"':
			end, err := skipString(text, i)
			if err != nil {
				return 0, err
			}
			i = end
			continue
		case '{', '[':
			depth++
		case '}', ']':
			if depth == 0 {
				return i, nil
			}
			depth--
			if depth == 0 {
				i++
				return i, nil
			}
		case ',':
			if depth == 0 {
				return i, nil
			}
		}
		i++
	}
	return i, nil
}

// extendRemovalForComma implements spec.md §4.6's "extend the deletion to
// consume at most ONE comma" rule: prefer the comma following the value
// (eating trailing spaces/tabs), else fall back to the comma preceding
// the property/element (eating preceding spaces/tabs on the same line).
func extendRemovalForComma(text string, start, end int) (int, int) {
	j := forwardSkip(text, end)
	if j < len(text) && text[j] == ',' {
		j++
		for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
			j++
		}
		return start, j
	}
	i := start - 1
	for i >= 0 && (text[i] == ' ' || text[i] == '\t') {
		i--
	}
	if i >= 0 && text[i] == ',' {
		return i, end
	}
	return start, end
}

func removePropertyAt(text string, obj *jsonvalue.Value, idx int) (TextEdit, error) {
	prop := obj.Object[idx]
	nameStart := prop.NamePos.Offset
	nameEnd, err := skipString(text, nameStart)
	if err != nil {
		return TextEdit{}, errors.Wrap(err, "cursor: removeProperty")
	}
	i := forwardSkip(text, nameEnd)
	if i >= len(text) || text[i] != ':' {
		return TextEdit{}, errors.New("cursor: removeProperty: expected ':' after property name")
	}
	i = forwardSkip(text, i+1)
	vEnd, err := valueEnd(text, i)
	if err != nil {
		return TextEdit{}, errors.Wrap(err, "cursor: removeProperty")
	}
	start, end := extendRemovalForComma(text, nameStart, vEnd)
	return TextEdit{Range: offsetRange(text, start, end), NewText: ""}, nil
}

func removeArrayItemAt(text string, arr *jsonvalue.Value, idx int) (TextEdit, error) {
	item := arr.Array[idx]
	start := item.Pos.Offset
	end, err := valueEnd(text, start)
	if err != nil {
		return TextEdit{}, errors.Wrap(err, "cursor: removeArrayItem")
	}
	rs, re := extendRemovalForComma(text, start, end)
	return TextEdit{Range: offsetRange(text, rs, re), NewText: ""}, nil
}
