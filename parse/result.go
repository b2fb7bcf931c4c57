package parse

import (
	"github.com/jsonmend/jsonmend/diag"
	"github.com/jsonmend/jsonmend/jsonvalue"
	"github.com/jsonmend/jsonmend/pathmap"
	"github.com/jsonmend/jsonmend/sanitize"
	"github.com/jsonmend/jsonmend/token"
)

// Result is the outcome of a Parse call (spec.md §3 ParseResult).
// Success is true iff Root is non-nil; when false, PathRanges is always
// empty regardless of options.
type Result struct {
	Success bool
	Root    *jsonvalue.Value

	Diagnostics []diag.Diagnostic

	// SanitizedText is populated only when Options.ReturnSanitizedText is
	// set and a sanitization pass actually ran (Sanitized/Aggressive
	// stage, or the post-success diagnostic-only pass).
	SanitizedText string

	// Tokens is populated only when Options.ProduceTokenSpans is set; it
	// covers the text actually used to produce this Result (whichever
	// stage succeeded, or the last stage attempted on failure).
	Tokens []token.Token

	// PathRanges is populated only when Options.ProducePathMap is set
	// and Root is non-nil.
	PathRanges map[string]pathmap.PathRange

	// SanitizationReport is the counters from whichever sanitization
	// pass ran last (Sanitized, Aggressive, or the post-success pass),
	// nil if none ran.
	SanitizationReport *sanitize.Result
}
