// Package token implements the single-pass JSON/JSONC tokenizer described
// in spec.md §4.1: an ordered sequence of lexical tokens with zero-based
// source ranges, tolerant of unrecognized characters and of comments.
package token

import "github.com/jsonmend/jsonmend/position"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	LeftBrace Kind = iota
	RightBrace
	LeftBracket
	RightBracket
	Colon
	Comma
	String
	Number
	True
	False
	Null
	Comment
)

func (k Kind) String() string {
	switch k {
	case LeftBrace:
		return "LeftBrace"
	case RightBrace:
		return "RightBrace"
	case LeftBracket:
		return "LeftBracket"
	case RightBracket:
		return "RightBracket"
	case Colon:
		return "Colon"
	case Comma:
		return "Comma"
	case String:
		return "String"
	case Number:
		return "Number"
	case True:
		return "True"
	case False:
		return "False"
	case Null:
		return "Null"
	case Comment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Token is a lexical unit with a kind and a source range.
type Token struct {
	Kind  Kind
	Range position.Range
}

// Significant reports whether the token is anything other than a comment.
// Comments are never load-bearing for structural decisions; see
// spec.md's glossary entry for "significant token".
func (t Token) Significant() bool {
	return t.Kind != Comment
}
