package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsonmend/jsonmend/diag"
	"github.com/jsonmend/jsonmend/jsonvalue"
	"github.com/jsonmend/jsonmend/position"
	"github.com/jsonmend/jsonmend/token"
)

// readerError is how the strict reader signals a syntax problem to its
// caller; it is never returned from a public Parse function — the
// pipeline converts it to a diag.Diagnostic (spec.md §4.3 "error
// classification").
type readerError struct {
	Key     diag.ErrorKey
	Message string
	Pos     position.Position // zero-based
	HasPos  bool
	Path    string
}

func (e *readerError) Error() string { return e.Message }

// reader is a one-shot recursive-descent strict JSON grammar walk over an
// already-tokenized document. It never depends on a third-party JSON
// library (see DESIGN.md): its job is narrowly to validate structure and
// build a jsonvalue.Value tree whose node positions correlate exactly
// with the token stream pathmap.Build later re-scans.
type reader struct {
	text   string
	tokens []token.Token
	pos    int

	allowComments   bool
	maxDepth        int
	dupStrategy     DuplicateKeyStrategy
	collectLineInfo bool
}

func newReader(text string, tokens []token.Token, opts Options) *reader {
	return &reader{
		text:          text,
		tokens:        tokens,
		allowComments: opts.AllowComments,
		maxDepth:      opts.MaxDepth,
		dupStrategy:   opts.DuplicatePropertyHandling,
		// A path map is built directly off these node positions
		// (pathmap.Build, cursor.FromPath), so requesting one implies
		// collecting line info even if the caller forgot to ask for it.
		collectLineInfo: opts.CollectLineInfo || opts.ProducePathMap,
	}
}

// nodePos returns tok's start position when line info is being collected,
// or the zero Position otherwise (spec.md §6's collectLineInfo option).
func (r *reader) nodePos(tok token.Token) position.Position {
	if !r.collectLineInfo {
		return position.Position{}
	}
	return tok.Range.Start
}

func (r *reader) skipComments() {
	if !r.allowComments {
		return
	}
	for r.pos < len(r.tokens) && r.tokens[r.pos].Kind == token.Comment {
		r.pos++
	}
}

func (r *reader) peek() (token.Token, bool) {
	r.skipComments()
	if r.pos >= len(r.tokens) {
		return token.Token{}, false
	}
	return r.tokens[r.pos], true
}

func (r *reader) advance() token.Token {
	t := r.tokens[r.pos]
	r.pos++
	return t
}

func (r *reader) literal(t token.Token) string {
	return r.text[t.Range.Start.Offset:t.Range.End.Offset]
}

// parseRoot parses exactly one value and requires no significant tokens
// remain afterward.
func (r *reader) parseRoot() (*jsonvalue.Value, error) {
	v, err := r.parseValue("", 0)
	if err != nil {
		return nil, err
	}
	if tok, ok := r.peek(); ok {
		return nil, r.unexpected(tok, "unexpected trailing content")
	}
	return v, nil
}

func (r *reader) parseValue(path string, depth int) (*jsonvalue.Value, error) {
	if r.maxDepth > 0 && depth > r.maxDepth {
		tok, _ := r.peek()
		return nil, &readerError{
			Key: diag.DepthLimitExceeded, Message: "maximum nesting depth exceeded",
			Pos: tok.Range.Start, HasPos: true, Path: path,
		}
	}
	tok, ok := r.peek()
	if !ok {
		return nil, &readerError{Key: diag.InvalidToken, Message: "unexpected end of input", Path: path}
	}
	switch tok.Kind {
	case token.LeftBrace:
		return r.parseObject(path, depth)
	case token.LeftBracket:
		return r.parseArray(path, depth)
	case token.String:
		r.advance()
		s := unquote(r.literal(tok))
		return jsonvalue.NewString(s, r.nodePos(tok)), nil
	case token.Number:
		r.advance()
		lit := r.literal(tok)
		if strings.HasPrefix(lit, "+") {
			return nil, r.unexpected(tok, "leading '+' is not valid in strict JSON")
		}
		n, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, r.unexpected(tok, "invalid number literal")
		}
		return jsonvalue.NewNumber(n, lit, r.nodePos(tok)), nil
	case token.True:
		r.advance()
		return jsonvalue.NewBool(true, r.nodePos(tok)), nil
	case token.False:
		r.advance()
		return jsonvalue.NewBool(false, r.nodePos(tok)), nil
	case token.Null:
		r.advance()
		return jsonvalue.Null(r.nodePos(tok)), nil
	default:
		return nil, r.unexpected(tok, "expected a value")
	}
}

func (r *reader) parseObject(path string, depth int) (*jsonvalue.Value, error) {
	open := r.advance()
	pos := r.nodePos(open)
	var props []jsonvalue.Property
	seen := make(map[string]int)

	if tok, ok := r.peek(); ok && tok.Kind == token.RightBrace {
		r.advance()
		return jsonvalue.NewObject(props, pos), nil
	}

	for {
		nameTok, ok := r.peek()
		if !ok || nameTok.Kind != token.String {
			if !ok {
				return nil, &readerError{Key: diag.InvalidToken, Message: "expected a property name", Path: path}
			}
			return nil, r.unexpected(nameTok, "expected a property name")
		}
		r.advance()
		name := unquote(r.literal(nameTok))
		namePos := nameTok.Range.Start
		propNamePos := r.nodePos(nameTok)
		propPath := joinProperty(path, name)

		colon, ok := r.peek()
		if !ok || colon.Kind != token.Colon {
			return nil, &readerError{Key: diag.InvalidToken, Message: "expected ':' after property name", Pos: namePos, HasPos: true, Path: propPath}
		}
		r.advance()

		val, err := r.parseValue(propPath, depth+1)
		if err != nil {
			return nil, err
		}

		if idx, dup := seen[name]; dup {
			switch r.dupStrategy {
			case DuplicateKeyError:
				return nil, &readerError{Key: diag.DuplicateKey, Message: fmt.Sprintf("duplicate property %q", name), Pos: namePos, HasPos: true, Path: propPath}
			case DuplicateKeyKeepFirst:
				// the first value for this name wins; discard val.
			case DuplicateKeyOverwriteWithLast:
				props[idx] = jsonvalue.Property{Name: name, NamePos: propNamePos, Value: val}
			}
		} else {
			seen[name] = len(props)
			props = append(props, jsonvalue.Property{Name: name, NamePos: propNamePos, Value: val})
		}

		nxt, ok := r.peek()
		if !ok {
			return nil, &readerError{Key: diag.InvalidToken, Message: "unterminated object", Path: path}
		}
		switch nxt.Kind {
		case token.Comma:
			r.advance()
			continue
		case token.RightBrace:
			r.advance()
			return jsonvalue.NewObject(props, pos), nil
		default:
			return nil, r.unexpected(nxt, "expected ',' or '}'")
		}
	}
}

func (r *reader) parseArray(path string, depth int) (*jsonvalue.Value, error) {
	open := r.advance()
	pos := r.nodePos(open)
	var items []*jsonvalue.Value

	if tok, ok := r.peek(); ok && tok.Kind == token.RightBracket {
		r.advance()
		return jsonvalue.NewArray(items, pos), nil
	}

	for {
		itemPath := joinIndex(path, len(items))
		val, err := r.parseValue(itemPath, depth+1)
		if err != nil {
			return nil, err
		}
		items = append(items, val)

		nxt, ok := r.peek()
		if !ok {
			return nil, &readerError{Key: diag.InvalidToken, Message: "unterminated array", Path: path}
		}
		switch nxt.Kind {
		case token.Comma:
			r.advance()
			continue
		case token.RightBracket:
			r.advance()
			return jsonvalue.NewArray(items, pos), nil
		default:
			return nil, r.unexpected(nxt, "expected ',' or ']'")
		}
	}
}

func (r *reader) unexpected(tok token.Token, message string) *readerError {
	return &readerError{Key: diag.InvalidToken, Message: message, Pos: tok.Range.Start, HasPos: true}
}

func joinProperty(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func joinIndex(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// unquote decodes a JSON string token's literal text (including its
// quotes, and tolerant of a missing closing quote since the tokenizer
// itself is tolerant). Unknown escapes pass the escaped character
// through literally rather than failing, matching the tokenizer's "never
// fail on textual content" stance.
func unquote(lit string) string {
	if len(lit) == 0 {
		return ""
	}
	body := lit
	if body[0] == '"' {
		body = body[1:]
	}
	if len(body) > 0 && body[len(body)-1] == '"' {
		body = body[:len(body)-1]
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			if i+4 < len(body) {
				if n, err := strconv.ParseUint(body[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(n))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
