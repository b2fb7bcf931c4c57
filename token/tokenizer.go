package token

import (
	"context"
	"unicode/utf8"

	"github.com/jsonmend/jsonmend/position"
	"github.com/pkg/errors"
)

// DefaultMaxTokens is the safety cap applied when Options.MaxTokens is left
// at zero. spec.md §4.1 requires a configurable cap of at least 1000; this
// default is generous enough never to bite a normal document while still
// bounding pathological input.
const DefaultMaxTokens = 1_000_000

// MinMaxTokens is the lowest cap callers may configure.
const MinMaxTokens = 1000

// Options configures a tokenizer run.
type Options struct {
	// MaxTokens caps the number of tokens produced. Zero means
	// DefaultMaxTokens; values below MinMaxTokens are raised to it.
	MaxTokens int
}

func (o Options) maxTokens() int {
	if o.MaxTokens == 0 {
		return DefaultMaxTokens
	}
	if o.MaxTokens < MinMaxTokens {
		return MinMaxTokens
	}
	return o.MaxTokens
}

// Tokenize scans text with default options and no seed position. It never
// fails on malformed text; the only error it can return is context
// cancellation.
func Tokenize(ctx context.Context, text string) ([]Token, error) {
	return TokenizeFrom(ctx, text, Seed{}, Options{})
}

// TokenizeWithOptions scans text with the given Options.
func TokenizeWithOptions(ctx context.Context, text string, opts Options) ([]Token, error) {
	return TokenizeFrom(ctx, text, Seed{}, opts)
}

// Seed carries the starting line/column/offset for a scan that begins
// partway through a larger document. incremental.Update uses this to
// retokenize only a window, seeded with the window's start position in the
// new text (spec.md §4.5).
type Seed struct {
	Line   int
	Column int
	Offset int
}

// TokenizeFrom scans text starting at seed's coordinates. text is the slice
// actually being scanned (callers pass the window substring, not the whole
// document); every emitted Token's Range is expressed in the seed's
// coordinate space so it can be spliced directly into a larger token list.
func TokenizeFrom(ctx context.Context, text string, seed Seed, opts Options) ([]Token, error) {
	s := &scanner{
		text:      text,
		line:      seed.Line,
		column:    seed.Column,
		offset:    seed.Offset,
		maxTokens: opts.maxTokens(),
		stack:     &ContainerStack{},
	}
	return s.run(ctx)
}

type scanner struct {
	text      string
	pos       int // byte index into text
	line      int
	column    int
	offset    int
	maxTokens int
	stack     *ContainerStack
	tokens    []Token
}

func (s *scanner) run(ctx context.Context) ([]Token, error) {
	for s.pos < len(s.text) {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return s.tokens, errors.Wrap(ctx.Err(), "token: scan canceled")
			default:
			}
		}
		if len(s.tokens) >= s.maxTokens {
			break
		}
		s.scanOne()
	}
	return s.tokens, nil
}

func (s *scanner) here() position.Position {
	return position.Position{Line: s.line, Column: s.column, Offset: s.offset}
}

// advance consumes n bytes starting at s.pos, updating line/column/offset
// bookkeeping. \r\n and lone \r count as a single line break, same as \n;
// columns reset to zero after any break (spec.md §4.1).
func (s *scanner) advance(n int) {
	end := s.pos + n
	if end > len(s.text) {
		end = len(s.text)
	}
	for s.pos < end {
		r, size := utf8.DecodeRuneInString(s.text[s.pos:end])
		switch r {
		case '\n':
			// the '\n' of a "\r\n" whose '\r' an earlier call already counted
			if s.pos == 0 || s.text[s.pos-1] != '\r' {
				s.line++
			}
			s.column = 0
		case '\r':
			// swallow a following \n as part of the same break
			if s.pos+1 < end && s.text[s.pos+1] == '\n' {
				size++
			}
			s.line++
			s.column = 0
		default:
			s.column++
		}
		s.pos += size
		s.offset += size
	}
}

func (s *scanner) emit(kind Kind, start position.Position, byteLen int) {
	s.advanceTo(byteLen)
	s.tokens = append(s.tokens, Token{Kind: kind, Range: position.Range{Start: start, End: s.here()}})
}

// advanceTo is a readability wrapper kept distinct from advance so call
// sites read as "consume byteLen bytes then stop", matching the shape
// used throughout emit's callers.
func (s *scanner) advanceTo(byteLen int) {
	s.advance(byteLen)
}

func (s *scanner) scanOne() {
	c := s.text[s.pos]
	switch {
	case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		s.advance(1)
	case c == '{':
		start := s.here()
		s.stack.Push(ContainerObject)
		s.emit(LeftBrace, start, 1)
	case c == '}':
		start := s.here()
		s.stack.Pop()
		s.emit(RightBrace, start, 1)
	case c == '[':
		start := s.here()
		s.stack.Push(ContainerArray)
		s.emit(LeftBracket, start, 1)
	case c == ']':
		start := s.here()
		s.stack.Pop()
		s.emit(RightBracket, start, 1)
	case c == ':':
		start := s.here()
		s.stack.NoteColon()
		s.emit(Colon, start, 1)
	case c == ',':
		start := s.here()
		s.stack.NoteComma()
		s.emit(Comma, start, 1)
	case c == '"':
		s.scanString()
	case c == '/' && s.pos+1 < len(s.text) && s.text[s.pos+1] == '/':
		s.scanLineComment()
	case c == '/' && s.pos+1 < len(s.text) && s.text[s.pos+1] == '*':
		s.scanBlockComment()
	case c == '-' || c == '+' || isDigit(c):
		if !s.scanNumber() {
			s.advance(1)
		}
	case hasPrefixAt(s.text, s.pos, "true"):
		s.emit(True, s.here(), 4)
	case hasPrefixAt(s.text, s.pos, "false"):
		s.emit(False, s.here(), 5)
	case hasPrefixAt(s.text, s.pos, "null"):
		s.emit(Null, s.here(), 4)
	default:
		s.advance(1)
	}
}

// scanString scans a JSON string starting at the current '"'. It honors \
// escapes (which consume the next character unconditionally) and
// terminates on an unescaped '"' or, tolerantly, on a raw line terminator.
// The end-exclusive range covers one past the closing quote when found, or
// one past the line terminator otherwise (spec.md §4.1).
func (s *scanner) scanString() {
	start := s.here()
	i := s.pos + 1
	for i < len(s.text) {
		c := s.text[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '"' {
			i++
			s.emit(String, start, i-s.pos)
			return
		}
		if c == '\n' || c == '\r' {
			i++
			s.emit(String, start, i-s.pos)
			return
		}
		i++
	}
	// unterminated at end of input
	s.emit(String, start, i-s.pos)
}

// scanNumber attempts to match -?[0-9]+(.[0-9]+)?([eE][-+]?[0-9]+)?, with a
// bare leading '+' also accepted for leniency (spec.md §4.1, §9). Returns
// false if nothing number-shaped was found at all (the '-'/'+' was bare).
func (s *scanner) scanNumber() bool {
	start := s.here()
	i := s.pos
	if s.text[i] == '-' || s.text[i] == '+' {
		i++
	}
	digitsStart := i
	for i < len(s.text) && isDigit(s.text[i]) {
		i++
	}
	if i == digitsStart {
		return false
	}
	if i < len(s.text) && s.text[i] == '.' {
		j := i + 1
		k := j
		for k < len(s.text) && isDigit(s.text[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	if i < len(s.text) && (s.text[i] == 'e' || s.text[i] == 'E') {
		j := i + 1
		if j < len(s.text) && (s.text[j] == '+' || s.text[j] == '-') {
			j++
		}
		k := j
		for k < len(s.text) && isDigit(s.text[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	s.emit(Number, start, i-s.pos)
	return true
}

func (s *scanner) scanLineComment() {
	start := s.here()
	i := s.pos + 2
	for i < len(s.text) && s.text[i] != '\n' {
		i++
	}
	s.emit(Comment, start, i-s.pos)
}

func (s *scanner) scanBlockComment() {
	start := s.here()
	i := s.pos + 2
	for i+1 < len(s.text) {
		if s.text[i] == '*' && s.text[i+1] == '/' {
			i += 2
			s.emit(Comment, start, i-s.pos)
			return
		}
		i++
	}
	s.emit(Comment, start, len(s.text)-s.pos)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func hasPrefixAt(text string, pos int, word string) bool {
	if pos+len(word) > len(text) {
		return false
	}
	return text[pos:pos+len(word)] == word
}
