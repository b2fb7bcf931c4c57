// Package commapolicy implements spec.md §4.7's two editor-support
// operations: deciding whether a comma should be inserted as the user
// types a new line inside an object/array, and whether a trailing comma
// should be removed just before a closer. Both scan the token stream
// around a caret offset rather than the raw text, reusing the same
// "skip comments, look at the next significant token" discipline the
// token package's own Significant method exists for.
package commapolicy

import (
	"github.com/jsonmend/jsonmend/position"
	"github.com/jsonmend/jsonmend/token"
)

// TextEdit is a single replacement of [Range.Start, Range.End) with
// NewText, in the coordinates of the token stream's source text.
type TextEdit struct {
	Range   position.Range
	NewText string
}

// valueTerminators are the token kinds that can be the last token of a
// JSON value.
func terminatesValue(k token.Kind) bool {
	switch k {
	case token.String, token.Number, token.True, token.False, token.Null, token.RightBrace, token.RightBracket:
		return true
	default:
		return false
	}
}

// prevSignificant returns the index of the last significant token whose
// end is at or before offset, or -1.
func prevSignificant(tokens []token.Token, offset int) int {
	best := -1
	for i, t := range tokens {
		if !t.Significant() {
			continue
		}
		if t.Range.End.Offset <= offset {
			best = i
		} else {
			break
		}
	}
	return best
}

// nextSignificant returns the index of the first significant token whose
// start is at or after offset, or -1.
func nextSignificant(tokens []token.Token, offset int) int {
	for i, t := range tokens {
		if !t.Significant() {
			continue
		}
		if t.Range.Start.Offset >= offset {
			return i
		}
	}
	return -1
}

// looksLikePropertyName reports whether the significant token at index i
// is a String immediately followed (modulo comments) by a Colon.
func looksLikePropertyName(tokens []token.Token, i int) bool {
	if i < 0 || i >= len(tokens) || tokens[i].Kind != token.String {
		return false
	}
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].Kind == token.Comment {
			continue
		}
		return tokens[j].Kind == token.Colon
	}
	return false
}

// hasCommaBetween reports whether any Comma token lies strictly between
// indices startIdx and endIdx of tokens.
func hasCommaBetween(tokens []token.Token, startIdx, endIdx int) bool {
	for i := startIdx + 1; i < endIdx; i++ {
		if tokens[i].Kind == token.Comma {
			return true
		}
	}
	return false
}

// TryInsertCommaBeforeNewline implements spec.md §4.7's "insert comma
// before newline at caret": if the previous significant token terminates
// a value, the next significant token looks like a property name, and no
// comma already separates them, it returns an edit that appends "," to
// the end of the previous token. The second return value is false when
// no insertion applies.
func TryInsertCommaBeforeNewline(tokens []token.Token, caretOffset int) (TextEdit, bool) {
	prevIdx := prevSignificant(tokens, caretOffset)
	nextIdx := nextSignificant(tokens, caretOffset)
	if prevIdx < 0 || nextIdx < 0 || prevIdx >= nextIdx {
		return TextEdit{}, false
	}
	prev := tokens[prevIdx]
	if !terminatesValue(prev.Kind) {
		return TextEdit{}, false
	}
	if !looksLikePropertyName(tokens, nextIdx) {
		return TextEdit{}, false
	}
	if hasCommaBetween(tokens, prevIdx, nextIdx) {
		return TextEdit{}, false
	}
	return TextEdit{
		Range:   position.Range{Start: prev.Range.End, End: prev.Range.End},
		NewText: ",",
	}, true
}

// TryRemoveCommaBeforeCloser implements spec.md §4.7's "remove trailing
// comma before closer at caret": takes the first significant token at or
// after caretOffset, which must be a closer (} or ]); then, skipping only
// comments, requires the token before it to be a comma and returns a
// deletion of that single token. False when no comma applies.
func TryRemoveCommaBeforeCloser(tokens []token.Token, caretOffset int) (TextEdit, bool) {
	closerIdx := -1
	for i, t := range tokens {
		if !t.Significant() {
			continue
		}
		if t.Range.Start.Offset < caretOffset {
			continue
		}
		if t.Kind == token.RightBrace || t.Kind == token.RightBracket {
			closerIdx = i
		}
		break
	}
	if closerIdx < 0 {
		return TextEdit{}, false
	}
	for i := closerIdx - 1; i >= 0; i-- {
		if tokens[i].Kind == token.Comment {
			continue
		}
		if tokens[i].Kind == token.Comma {
			return TextEdit{Range: tokens[i].Range, NewText: ""}, true
		}
		break
	}
	return TextEdit{}, false
}
