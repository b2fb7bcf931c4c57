// Package jsonmend is the library's outward-facing facade: a thin layer
// over the internal position/token/sanitize/jsonvalue/diag/parse/pathmap/
// incremental/cursor/commapolicy/process packages, re-exporting the
// pieces a caller needs without requiring a direct import of each
// internal package.
//
// Equivalent in spirit to the teacher's root-level protocol.go/stream.go:
// a facade over internal packages, not new parsing or editing logic of
// its own (spec.md §12's package-layout table).
package jsonmend

import (
	"context"

	"github.com/jsonmend/jsonmend/commapolicy"
	"github.com/jsonmend/jsonmend/cursor"
	"github.com/jsonmend/jsonmend/diag"
	"github.com/jsonmend/jsonmend/incremental"
	"github.com/jsonmend/jsonmend/jsonvalue"
	"github.com/jsonmend/jsonmend/parse"
	"github.com/jsonmend/jsonmend/pathmap"
	"github.com/jsonmend/jsonmend/process"
	"github.com/jsonmend/jsonmend/token"
)

// Re-exported types, so a caller touching only the common path never
// needs to import an internal package directly.
type (
	Options           = parse.Options
	Result            = parse.Result
	Value             = jsonvalue.Value
	Diagnostic        = diag.Diagnostic
	PathRange         = pathmap.PathRange
	Token             = token.Token
	TextChange        = incremental.TextChange
	Cursor            = cursor.Cursor
	TextEdit          = cursor.TextEdit
	CommaEdit         = commapolicy.TextEdit
	ProcessingOptions = process.Options
	ProcessingResult  = process.ProcessingResult
	ProcessMode       = process.Mode
	ProcessPriority   = process.Priority
)

// Process mode/priority constants, re-exported for callers that only
// import this package.
const (
	ProcessStrict   = process.Strict
	ProcessTolerant = process.Tolerant
	ProcessBoth     = process.Both

	CorrectnessFirst = process.CorrectnessFirst
	RecoveryFirst    = process.RecoveryFirst
)

// Parse runs the staged parser driver over text: an Initial strict
// attempt, then (per opts) Sanitized and Aggressive fallback attempts,
// per spec.md §4.3.
func Parse(ctx context.Context, text string, opts Options) (Result, error) {
	return parse.Parse(ctx, text, opts)
}

// ParseDefault runs Parse with a background context, for callers with no
// cancellation signal to offer.
func ParseDefault(text string, opts Options) Result {
	return parse.ParseDefault(text, opts)
}

// Process runs a strict and/or tolerant parse of text and selects one
// result per opts.Priority, per spec.md §6.
func Process(ctx context.Context, text string, opts ProcessingOptions) (ProcessingResult, error) {
	return process.Process(ctx, text, opts)
}

// ApplyChanges splices changes into oldText, retokenizes only the
// affected window, and shifts or invalidates path-map entries
// accordingly, per spec.md §4.5.
func ApplyChanges(ctx context.Context, oldText string, oldTokens []Token, oldPathRanges map[string]PathRange, changes []TextChange, contextRadius int) (newText string, newTokens []Token, newPathRanges map[string]PathRange, windowStart, windowEnd int, err error) {
	return incremental.ApplyChanges(ctx, oldText, oldTokens, oldPathRanges, changes, contextRadius)
}

// ApplyChangesWithReparse is ApplyChanges' variant that rebuilds the path
// map by fully re-parsing the new text, per spec.md §4.5.
func ApplyChangesWithReparse(ctx context.Context, oldText string, oldTokens []Token, changes []TextChange, opts Options, contextRadius int) (newText string, newTokens []Token, newPathRanges map[string]PathRange, newResult Result, err error) {
	return incremental.ApplyChangesWithReparse(ctx, oldText, oldTokens, changes, opts, contextRadius)
}

// CursorFromPath resolves path against result's parsed tree, per
// spec.md §4.6's Cursor construction.
func CursorFromPath(result Result, path string) *Cursor {
	return cursor.FromPath(result, path)
}

// RemoveAt resolves path and removes it in a single call, per spec.md
// §6's static removeAt convenience.
func RemoveAt(text string, result Result, path string) (TextEdit, error) {
	return cursor.RemoveAt(text, result, path)
}

// TryInsertCommaBeforeNewline implements spec.md §4.7's editor-support
// comma-insertion heuristic.
func TryInsertCommaBeforeNewline(tokens []Token, caretOffset int) (CommaEdit, bool) {
	return commapolicy.TryInsertCommaBeforeNewline(tokens, caretOffset)
}

// TryRemoveCommaBeforeCloser implements spec.md §4.7's editor-support
// trailing-comma removal heuristic.
func TryRemoveCommaBeforeCloser(tokens []Token, caretOffset int) (CommaEdit, bool) {
	return commapolicy.TryRemoveCommaBeforeCloser(tokens, caretOffset)
}
