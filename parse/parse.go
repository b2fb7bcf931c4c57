// Package parse implements spec.md §4.3's staged Parser Driver: a strict
// attempt, then (if enabled) a Sanitized-stage retry, then (if enabled)
// an Aggressive-stage retry, assembling diagnostics and optional
// artifacts (tokens, path map) along the way.
//
// Grounded on handler/handler.go's staged dispatch style (try the fast
// path, fall back progressively) and sourcemapper/ino.go's "rebuild from
// scratch on structural change" regeneration pass.
package parse

import (
	"context"

	"github.com/jsonmend/jsonmend/diag"
	"github.com/jsonmend/jsonmend/jsonvalue"
	"github.com/jsonmend/jsonmend/pathmap"
	"github.com/jsonmend/jsonmend/position"
	"github.com/jsonmend/jsonmend/sanitize"
	"github.com/jsonmend/jsonmend/token"
)

// Parse runs the staged pipeline over text. The only error it returns is
// context cancellation (spec.md §7); every malformed-input condition is
// instead reported as a Diagnostic inside the returned Result.
func Parse(ctx context.Context, text string, opts Options) (Result, error) {
	p := &pipeline{ctx: ctx, opts: opts}
	return p.run(text)
}

// ParseDefault runs Parse with a background context, for callers that
// have no cancellation signal to offer.
func ParseDefault(text string, opts Options) Result {
	r, _ := Parse(context.Background(), text, opts)
	return r
}

type pipeline struct {
	ctx  context.Context
	opts Options
}

func (p *pipeline) run(text string) (Result, error) {
	var result Result

	if len(text) == 0 {
		result.Diagnostics = append(result.Diagnostics, p.diagnostic(diag.NoContent, "input is empty", diag.StageInitial, position.Position{}, false, ""))
		return result, nil
	}
	if p.opts.MaxDocumentLength > 0 && len(text) > p.opts.MaxDocumentLength {
		result.Diagnostics = append(result.Diagnostics, p.diagnostic(diag.SizeLimitExceeded, "input exceeds maxDocumentLength", diag.StageInitial, position.Position{}, false, ""))
		if p.opts.ProduceTokenSpans {
			toks, err := p.tokenize(text)
			if err != nil {
				return Result{}, err
			}
			result.Tokens = toks
		}
		return result, nil
	}

	normalized := text
	if p.opts.NormalizeLineEndings {
		sres, err := sanitize.SanitizeContext(p.ctx, text, sanitize.Switches{NormalizeLineEndings: true})
		if err != nil {
			return Result{}, err
		}
		normalized = sres.Text
		if p.opts.IncludeSanitizationDiagnostics {
			if sres.BomRemoved > 0 {
				result.Diagnostics = append(result.Diagnostics, p.diagnostic(diag.BomRemoved, "byte-order mark removed", diag.StageInitial, position.Position{}, false, ""))
			}
			if sres.LineEndingsNormalized > 0 {
				result.Diagnostics = append(result.Diagnostics, p.diagnostic(diag.LineEndingsNormalized, "line endings normalized to LF", diag.StageInitial, position.Position{}, false, ""))
			}
		}
	}

	// Stage: Initial.
	initialTokens, err := p.tokenize(normalized)
	if err != nil {
		return Result{}, err
	}
	root, rerr := newReader(normalized, initialTokens, p.opts).parseRoot()
	if rerr == nil {
		return p.finishSuccess(result, normalized, initialTokens, root, nil)
	}
	result.Diagnostics = append(result.Diagnostics, p.classify(rerr, normalized, diag.StageInitial))

	if !p.opts.EnableSanitizationFallback {
		if p.opts.ProduceTokenSpans {
			result.Tokens = initialTokens
		}
		return result, nil
	}

	// Stage: Sanitized.
	switches := sanitize.Switches{
		RemoveComments:         true,
		RemoveTrailingCommas:   p.opts.AllowTrailingCommas,
		RemoveControlChars:     p.opts.RemoveControlCharacters,
		FixUnterminatedStrings: p.opts.FixUnterminatedStrings,
		RecoverMissingCommas:   p.opts.RecoverMissingCommas,
		RecoverMissingClosers:  p.opts.RecoverMissingClosers,
	}
	sres, err := sanitize.SanitizeContext(p.ctx, normalized, switches)
	if err != nil {
		return Result{}, err
	}
	sanitizedOpts := p.opts
	sanitizedOpts.AllowComments = false
	sanitizedTokens, err := p.tokenizeWith(sres.Text, sanitizedOpts)
	if err != nil {
		return Result{}, err
	}
	sroot, rerr := newReader(sres.Text, sanitizedTokens, sanitizedOpts).parseRoot()
	result.Diagnostics = append(result.Diagnostics, p.sanitizationDiagnostics(sres, diag.StageSanitized)...)
	if rerr == nil {
		return p.finishSuccess(result, sres.Text, sanitizedTokens, sroot, &sres)
	}
	result.Diagnostics = append(result.Diagnostics, p.classify(rerr, sres.Text, diag.StageSanitized))
	result.SanitizationReport = &sres

	if !p.opts.EnableAggressiveRecovery {
		if p.opts.ProduceTokenSpans {
			result.Tokens = sanitizedTokens
		}
		return result, nil
	}

	// Stage: Aggressive — always sanitizes the originally-normalized
	// text, never the intermediate Sanitized-stage text (spec.md §4.3
	// step 5).
	ares, err := sanitize.SanitizeContext(p.ctx, normalized, sanitize.All())
	if err != nil {
		return Result{}, err
	}
	aggressiveOpts := p.opts
	aggressiveOpts.AllowComments = false
	aggressiveTokens, err := p.tokenizeWith(ares.Text, aggressiveOpts)
	if err != nil {
		return Result{}, err
	}
	aroot, rerr := newReader(ares.Text, aggressiveTokens, aggressiveOpts).parseRoot()
	result.Diagnostics = append(result.Diagnostics, p.sanitizationDiagnostics(ares, diag.StageAggressive)...)
	if rerr == nil {
		return p.finishSuccess(result, ares.Text, aggressiveTokens, aroot, &ares)
	}
	result.Diagnostics = append(result.Diagnostics, p.classify(rerr, ares.Text, diag.StageAggressive))
	result.SanitizationReport = &ares
	if p.opts.ProduceTokenSpans {
		result.Tokens = aggressiveTokens
	}
	return result, nil
}

// finishSuccess implements spec.md §4.3 steps 6–7: the post-success
// diagnostics pass and artifact production.
func (p *pipeline) finishSuccess(result Result, successText string, successTokens []token.Token, root *jsonvalue.Value, report *sanitize.Result) (Result, error) {
	result.Success = true
	result.Root = root
	result.SanitizationReport = report

	if report == nil && (p.opts.IncludeSanitizationDiagnostics || p.opts.ReturnSanitizedText) {
		// Step 6: the Initial stage succeeded outright, but the caller
		// still wants counters and/or sanitized text. Run sanitization
		// purely for its side information; it never replaces root.
		probe := sanitize.Switches{
			RemoveComments:         true,
			RemoveTrailingCommas:   p.opts.AllowTrailingCommas,
			RemoveControlChars:     p.opts.RemoveControlCharacters,
			FixUnterminatedStrings: p.opts.FixUnterminatedStrings,
			RecoverMissingCommas:   p.opts.RecoverMissingCommas,
			RecoverMissingClosers:  p.opts.RecoverMissingClosers,
		}
		pres, err := sanitize.SanitizeContext(p.ctx, successText, probe)
		if err != nil {
			return Result{}, err
		}
		if p.opts.IncludeSanitizationDiagnostics {
			result.Diagnostics = append(result.Diagnostics, p.sanitizationDiagnostics(pres, diag.StageInitial)...)
		}
		result.SanitizationReport = &pres
	}

	if p.opts.ReturnSanitizedText {
		if result.SanitizationReport != nil {
			result.SanitizedText = result.SanitizationReport.Text
		} else {
			result.SanitizedText = successText
		}
	}

	if p.opts.ProduceTokenSpans {
		result.Tokens = successTokens
	}
	if p.opts.ProducePathMap {
		result.PathRanges = pathmap.Build(root, successTokens)
	}
	return result, nil
}

func (p *pipeline) tokenize(text string) ([]token.Token, error) {
	return p.tokenizeWith(text, p.opts)
}

func (p *pipeline) tokenizeWith(text string, opts Options) ([]token.Token, error) {
	return token.TokenizeWithOptions(p.ctx, text, token.Options{MaxTokens: opts.TokenSpanLimit})
}

// classify converts a readerError into a Diagnostic per spec.md §4.3's
// error-classification table.
func (p *pipeline) classify(err error, text string, stage diag.Stage) diag.Diagnostic {
	re, ok := err.(*readerError)
	if !ok {
		return p.diagnosticWithSnippet(diag.Exception, err.Error(), stage, position.Position{}, false, "", text)
	}
	return p.diagnosticWithSnippet(re.Key, re.Message, stage, re.Pos, re.HasPos, re.Path, text)
}

// sanitizationDiagnostics emits one diagnostic per non-zero sanitizer
// counter, when requested.
func (p *pipeline) sanitizationDiagnostics(r sanitize.Result, stage diag.Stage) []diag.Diagnostic {
	if !p.opts.IncludeSanitizationDiagnostics {
		return nil
	}
	var out []diag.Diagnostic
	add := func(key diag.ErrorKey, count int, message string) {
		if count > 0 {
			out = append(out, p.diagnostic(key, message, stage, position.Position{}, false, ""))
		}
	}
	add(diag.BomRemoved, r.BomRemoved, "byte-order mark removed")
	add(diag.LineEndingsNormalized, r.LineEndingsNormalized, "line endings normalized to LF")
	add(diag.CommentsRemoved, r.CommentsRemoved, "comments removed")
	add(diag.TrailingCommasRemoved, r.TrailingCommasRemoved, "trailing comma removed")
	add(diag.ControlCharsRemoved, r.ControlCharsRemoved, "control characters removed")
	add(diag.UnterminatedStringsClosed, r.UnterminatedStringsClosed, "unterminated property-name string closed")
	add(diag.MissingCommasInserted, r.MissingCommasInserted, "missing comma inserted")
	add(diag.ClosersInserted, r.ClosersInserted, "missing closer inserted")
	return out
}

// diagnostic builds a position-less Diagnostic (used for repair counters
// and whole-document failures, which have no single source location).
func (p *pipeline) diagnostic(key diag.ErrorKey, message string, stage diag.Stage, pos position.Position, hasPos bool, path string) diag.Diagnostic {
	return p.diagnosticWithSnippet(key, message, stage, pos, hasPos, path, "")
}

// diagnosticWithSnippet builds a Diagnostic, deriving the 1-based
// line/column, the zero-based Range, and a best-effort snippet from pos
// when hasPos is true and source text is available (spec.md §4.3, §4.8).
func (p *pipeline) diagnosticWithSnippet(key diag.ErrorKey, message string, stage diag.Stage, pos position.Position, hasPos bool, path string, text string) diag.Diagnostic {
	d := diag.Diagnostic{
		Code:     key.Resolve(p.opts.ResolveErrorCode),
		Severity: key.DefaultSeverity(),
		Message:  message,
		Stage:    stage,
		Path:     path,
	}
	if !hasPos {
		return d
	}
	d.Line = pos.Line + 1
	d.Column = pos.Column + 1
	d.Range = &diag.Range{
		StartLine: pos.Line, StartColumn: pos.Column, StartOffset: pos.Offset,
		EndLine: pos.Line, EndColumn: pos.Column + 1, EndOffset: pos.Offset + 1,
	}
	if text != "" {
		radius := p.opts.SnippetContextRadius
		idx := position.NewLineIndex(text)
		d.Snippet = diag.Snippet(idx, text, d.Line, d.Column, radius)
	}
	return d
}
