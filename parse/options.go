package parse

import "github.com/jsonmend/jsonmend/diag"

// DuplicateKeyStrategy selects how the strict reader handles a repeated
// property name within the same object (spec.md §4.3).
type DuplicateKeyStrategy int

const (
	// DuplicateKeyError raises a DuplicateKey diagnostic and fails the
	// parse attempt.
	DuplicateKeyError DuplicateKeyStrategy = iota
	// DuplicateKeyKeepFirst silently ignores every value after the
	// first for a given name.
	DuplicateKeyKeepFirst
	// DuplicateKeyOverwriteWithLast replaces earlier values, keeping
	// the property at its original position in source order.
	DuplicateKeyOverwriteWithLast
)

// Options configures a Parse call. The zero value is the strictest
// possible profile: no fallback stages, no comments, duplicate keys are
// an error, no artifacts produced beyond the root value.
type Options struct {
	// NormalizeLineEndings strips a leading BOM and converts CRLF/CR to
	// LF before the Initial attempt (spec.md §4.3 step 2).
	NormalizeLineEndings bool

	// AllowComments lets the Initial attempt skip // and /* */ comment
	// tokens wherever a structural token is expected.
	AllowComments bool

	// CollectLineInfo attaches each node's source position (and each
	// property's name position) while building the tree. Disabling it
	// skips that bookkeeping entirely, leaving every Value.Pos and
	// Property.NamePos at its zero value; diagnostics still carry
	// positions regardless, since they come from the token stream
	// directly rather than from the tree.
	CollectLineInfo bool

	// DuplicatePropertyHandling selects the strategy used whenever the
	// strict reader meets a repeated object key.
	DuplicatePropertyHandling DuplicateKeyStrategy

	// EnableSanitizationFallback runs the Sanitized stage (user-selected
	// repair switches) after a failed Initial attempt.
	EnableSanitizationFallback bool
	// EnableAggressiveRecovery runs the Aggressive stage (every repair
	// switch enabled) after a failed Sanitized stage.
	EnableAggressiveRecovery bool

	// AllowTrailingCommas, RemoveControlCharacters, FixUnterminatedStrings,
	// RecoverMissingCommas and RecoverMissingClosers select which repairs
	// the Sanitized stage performs; the Aggressive stage always enables
	// all of them regardless of these fields.
	AllowTrailingCommas    bool
	RemoveControlCharacters bool
	FixUnterminatedStrings  bool
	RecoverMissingCommas    bool
	RecoverMissingClosers   bool

	// ReturnSanitizedText asks for the sanitized text (whichever stage
	// produced the successful parse, or a purely diagnostic pass after
	// an Initial success) to be attached to the Result.
	ReturnSanitizedText bool
	// IncludeSanitizationDiagnostics emits one diagnostic per non-zero
	// sanitizer counter, at the stage that produced it.
	IncludeSanitizationDiagnostics bool

	// SnippetContextRadius is the character radius passed to
	// diag.Snippet; zero means diag.DefaultSnippetRadius.
	SnippetContextRadius int
	// ResolveErrorCode overrides the default code for a diagnostic's
	// ErrorKey; nil means use the default registry (spec.md §6).
	ResolveErrorCode diag.Resolver

	// MaxDepth caps object/array nesting; zero means unlimited.
	MaxDepth int
	// MaxDocumentLength caps input size in characters; zero means
	// unlimited.
	MaxDocumentLength int

	// ProduceTokenSpans attaches the token sequence of the text that
	// produced the result (successful or not) to Result.Tokens.
	ProduceTokenSpans bool
	// ProducePathMap builds Result.PathRanges when a root is present.
	ProducePathMap bool
	// TokenSpanLimit caps the number of tokens produced; zero means
	// token.DefaultMaxTokens.
	TokenSpanLimit int
}
