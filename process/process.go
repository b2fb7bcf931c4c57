// Package process implements spec.md §6's process() selector: a thin
// policy layer over parse.Parse that runs a strict attempt, a tolerant
// attempt, or both, and picks one result according to a priority. It
// intentionally does nothing parse.Parse doesn't already do — spec.md §1
// frames strict-vs-tolerant selection as a thin external-collaborator
// concern, not a place for new parsing logic.
package process

import (
	"context"

	"github.com/jsonmend/jsonmend/parse"
)

// Mode selects which attempt(s) Process runs.
type Mode int

const (
	Strict Mode = iota
	Tolerant
	Both
)

// Priority selects which attempt wins when Mode is Both and both
// attempts produce a result.
type Priority int

const (
	// CorrectnessFirst prefers the strict result whenever it succeeds,
	// falling back to the tolerant result only when strict fails.
	CorrectnessFirst Priority = iota
	// RecoveryFirst prefers the tolerant result whenever it succeeds,
	// even if the strict attempt also succeeded without any repairs.
	RecoveryFirst
)

// Options configures a Process call: which attempt(s) to run, how to
// pick a winner when both run, and the parse.Options each attempt uses
// as its base (Strict always forces the fallback stages off; Tolerant
// always forces them on, regardless of what base sets).
type Options struct {
	Mode     Mode
	Priority Priority
	Parse    parse.Options
}

// ProcessingResult is the outcome of a Process call: the winning
// parse.Result plus which attempt produced it.
type ProcessingResult struct {
	Result   parse.Result
	Selected string // "strict" or "tolerant"
}

// Process runs strict and/or tolerant parses of text per opts.Mode and
// selects one per opts.Priority, per spec.md §6.
func Process(ctx context.Context, text string, opts Options) (ProcessingResult, error) {
	switch opts.Mode {
	case Strict:
		r, err := runStrict(ctx, text, opts.Parse)
		if err != nil {
			return ProcessingResult{}, err
		}
		return ProcessingResult{Result: r, Selected: "strict"}, nil
	case Tolerant:
		r, err := runTolerant(ctx, text, opts.Parse)
		if err != nil {
			return ProcessingResult{}, err
		}
		return ProcessingResult{Result: r, Selected: "tolerant"}, nil
	default:
		strictResult, err := runStrict(ctx, text, opts.Parse)
		if err != nil {
			return ProcessingResult{}, err
		}
		tolerantResult, err := runTolerant(ctx, text, opts.Parse)
		if err != nil {
			return ProcessingResult{}, err
		}
		return selectResult(strictResult, tolerantResult, opts.Priority), nil
	}
}

func runStrict(ctx context.Context, text string, base parse.Options) (parse.Result, error) {
	o := base
	o.EnableSanitizationFallback = false
	o.EnableAggressiveRecovery = false
	return parse.Parse(ctx, text, o)
}

func runTolerant(ctx context.Context, text string, base parse.Options) (parse.Result, error) {
	o := base
	o.EnableSanitizationFallback = true
	o.EnableAggressiveRecovery = true
	return parse.Parse(ctx, text, o)
}

func selectResult(strict, tolerant parse.Result, priority Priority) ProcessingResult {
	if priority == RecoveryFirst {
		if tolerant.Success {
			return ProcessingResult{Result: tolerant, Selected: "tolerant"}
		}
		return ProcessingResult{Result: strict, Selected: "strict"}
	}
	if strict.Success {
		return ProcessingResult{Result: strict, Selected: "strict"}
	}
	return ProcessingResult{Result: tolerant, Selected: "tolerant"}
}
