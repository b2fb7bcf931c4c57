// Package incremental implements spec.md §4.5: applying a batch of text
// edits, retokenizing only a window around them, and splicing the
// surviving old tokens with freshly scanned window tokens plus
// coordinate-shifted path ranges.
//
// Directly adapted from sourcemapper/ino.go's ApplyTextChange/addInoLine/
// deleteCppLine: the teacher already solves "apply an edit, then shift
// every downstream coordinate mapping accordingly, without a full
// re-scan" for .ino/.cpp line numbers. This package generalizes the same
// shifting discipline from line numbers to character offsets (and, via
// position.LineIndex, to line/column pairs derived from those offsets
// rather than tracked through a parallel newline-delta counter — see
// DESIGN.md for why that resolves spec.md §9's column-shift ambiguity
// more simply than mirroring the teacher's line-counter bookkeeping).
package incremental

import (
	"context"
	"log"
	"sort"

	"github.com/jsonmend/jsonmend/parse"
	"github.com/jsonmend/jsonmend/pathmap"
	"github.com/jsonmend/jsonmend/position"
	"github.com/jsonmend/jsonmend/token"
	"github.com/pkg/errors"
)

// TextChange describes one edit against OLD text: replace
// [StartOffset, EndOffset) with NewText. EndOffset is exclusive.
type TextChange struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

func (c TextChange) lengthDelta() int {
	return len(c.NewText) - (c.EndOffset - c.StartOffset)
}

// DefaultContextRadius is used when callers pass a non-positive radius.
const DefaultContextRadius = 128

// Update applies changes to oldText, retokenizes a window around the
// edited region, and splices it with the surviving (shifted) old
// tokens. windowStart/windowEnd are returned in NEW-text coordinates.
func Update(ctx context.Context, oldText string, oldTokens []token.Token, changes []TextChange, contextRadius int) (newText string, newTokens []token.Token, windowStart, windowEnd int, err error) {
	if contextRadius <= 0 {
		contextRadius = DefaultContextRadius
	}
	sorted := sortedChanges(changes)

	newText, err = applyText(oldText, sorted)
	if err != nil {
		return "", nil, 0, 0, err
	}
	if len(sorted) == 0 {
		return newText, oldTokens, 0, 0, nil
	}

	minStart, maxEndOld, totalDelta := windowBounds(sorted)
	windowStart = clamp(minStart-contextRadius, 0, len(newText))
	windowEnd = clamp(maxEndOld+totalDelta+contextRadius, 0, len(newText))
	if windowEnd < windowStart {
		windowEnd = windowStart
	}

	idx := position.NewLineIndex(newText)
	seed := token.Seed{}
	seedPos := idx.Position(windowStart)
	seed.Line, seed.Column, seed.Offset = seedPos.Line, seedPos.Column, seedPos.Offset

	log.Printf("  > Splicing retokenize window [%d, %d) (delta %d)", windowStart, windowEnd, totalDelta)

	windowTokens, err := token.TokenizeFrom(ctx, newText[windowStart:windowEnd], seed, token.Options{})
	if err != nil {
		return "", nil, 0, 0, errors.Wrap(err, "incremental: window retokenize canceled")
	}

	before := make([]token.Token, 0, len(oldTokens))
	after := make([]token.Token, 0, len(oldTokens))
	for _, t := range oldTokens {
		switch {
		case t.Range.End.Offset <= windowStart && !overlapsAnyChange(t, sorted):
			before = append(before, t)
		case t.Range.Start.Offset >= maxEndOld && !overlapsAnyChange(t, sorted):
			shiftedStart := t.Range.Start.Offset + totalDelta
			shiftedEnd := t.Range.End.Offset + totalDelta
			if shiftedStart >= windowEnd {
				after = append(after, token.Token{
					Kind: t.Kind,
					Range: position.Range{
						Start: idx.Position(shiftedStart),
						End:   idx.Position(shiftedEnd),
					},
				})
			}
		}
		// tokens overlapping an edit, or falling inside the window but
		// not covered by the two cases above, are dropped: the window
		// retokenization replaces them.
	}

	newTokens = make([]token.Token, 0, len(before)+len(windowTokens)+len(after))
	newTokens = append(newTokens, before...)
	newTokens = append(newTokens, windowTokens...)
	newTokens = append(newTokens, after...)
	return newText, newTokens, windowStart, windowEnd, nil
}

// ApplyChanges is Update plus path-range shifting/invalidation
// (spec.md §4.5's ApplyChanges contract).
func ApplyChanges(ctx context.Context, oldText string, oldTokens []token.Token, oldPathRanges map[string]pathmap.PathRange, changes []TextChange, contextRadius int) (newText string, newTokens []token.Token, newPathRanges map[string]pathmap.PathRange, windowStart, windowEnd int, err error) {
	newText, newTokens, windowStart, windowEnd, err = Update(ctx, oldText, oldTokens, changes, contextRadius)
	if err != nil {
		return "", nil, nil, 0, 0, err
	}
	sorted := sortedChanges(changes)
	idx := position.NewLineIndex(newText)

	newPathRanges = make(map[string]pathmap.PathRange, len(oldPathRanges))
	for path, entry := range oldPathRanges {
		if rangeOverlapsAnyChange(entry.NameRange, sorted) || rangeOverlapsAnyChange(entry.ValueRange, sorted) {
			continue
		}
		shifted := pathmap.PathRange{
			Path:       path,
			NameRange:  shiftRange(entry.NameRange, sorted, idx),
			ValueRange: shiftRange(entry.ValueRange, sorted, idx),
		}
		newPathRanges[path] = shifted
	}
	return newText, newTokens, newPathRanges, windowStart, windowEnd, nil
}

// ApplyChangesWithReparse performs the same window-splice token update as
// Update, but rebuilds the path map by fully re-parsing the new text,
// tolerating arbitrary structural changes the windowed splice can't
// track (spec.md §4.5's "reparse variant").
func ApplyChangesWithReparse(ctx context.Context, oldText string, oldTokens []token.Token, changes []TextChange, opts parse.Options, contextRadius int) (newText string, newTokens []token.Token, newPathRanges map[string]pathmap.PathRange, newResult parse.Result, err error) {
	newText, newTokens, _, _, err = Update(ctx, oldText, oldTokens, changes, contextRadius)
	if err != nil {
		return "", nil, nil, parse.Result{}, err
	}
	opts.ProducePathMap = true
	newResult, err = parse.Parse(ctx, newText, opts)
	if err != nil {
		return "", nil, nil, parse.Result{}, err
	}
	return newText, newTokens, newResult.PathRanges, newResult, nil
}

func sortedChanges(changes []TextChange) []TextChange {
	sorted := make([]TextChange, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartOffset < sorted[j].StartOffset })
	return sorted
}

// applyText splices changes (already sorted by StartOffset, taken in OLD
// coordinates) into oldText.
func applyText(oldText string, sorted []TextChange) (string, error) {
	var b []byte
	cursor := 0
	for _, c := range sorted {
		if c.StartOffset < cursor || c.StartOffset > c.EndOffset || c.EndOffset > len(oldText) {
			return "", errors.Errorf("incremental: invalid change [%d,%d) against %d-byte text", c.StartOffset, c.EndOffset, len(oldText))
		}
		b = append(b, oldText[cursor:c.StartOffset]...)
		b = append(b, c.NewText...)
		cursor = c.EndOffset
	}
	b = append(b, oldText[cursor:]...)
	return string(b), nil
}

// windowBounds computes minStart, maxEndOld, and totalDelta per
// spec.md §4.5.
func windowBounds(sorted []TextChange) (minStart, maxEndOld, totalDelta int) {
	if len(sorted) == 0 {
		return 0, 0, 0
	}
	minStart = sorted[0].StartOffset
	maxEndOld = sorted[0].EndOffset
	for _, c := range sorted {
		if c.StartOffset < minStart {
			minStart = c.StartOffset
		}
		if c.EndOffset > maxEndOld {
			maxEndOld = c.EndOffset
		}
		totalDelta += c.lengthDelta()
	}
	return minStart, maxEndOld, totalDelta
}

func overlapsAnyChange(t token.Token, changes []TextChange) bool {
	for _, c := range changes {
		if t.Range.Start.Offset < c.EndOffset && t.Range.End.Offset > c.StartOffset {
			return true
		}
	}
	return false
}

// rangeOverlapsAnyChange implements spec.md §4.5's path-range
// invalidation rule: range.start.offset < edit.endOffset &&
// range.end.offset > edit.startOffset, in OLD coordinates.
func rangeOverlapsAnyChange(r *position.Range, changes []TextChange) bool {
	if r == nil {
		return false
	}
	for _, c := range changes {
		if r.Start.Offset < c.EndOffset && r.End.Offset > c.StartOffset {
			return true
		}
	}
	return false
}

// shiftRange moves r by the length deltas of the changes that end at or
// before its start, so entries before every edit keep their offsets.
func shiftRange(r *position.Range, changes []TextChange, idx *position.LineIndex) *position.Range {
	if r == nil {
		return nil
	}
	delta := 0
	for _, c := range changes {
		if c.EndOffset <= r.Start.Offset {
			delta += c.lengthDelta()
		}
	}
	shifted := position.Range{
		Start: idx.Position(r.Start.Offset + delta),
		End:   idx.Position(r.End.Offset + delta),
	}
	return &shifted
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
