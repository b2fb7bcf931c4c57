// Package position implements the zero-based source coordinates shared by
// every other package in jsonmend: a Position (line, column, byte offset),
// a Range over two positions, and a LineIndex that converts between the two
// representations in O(log n).
package position

import "fmt"

// Position is an immutable zero-based source location.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d@%d", p.Line, p.Column, p.Offset)
}

// Before reports whether p comes strictly before q, comparing by offset.
func (p Position) Before(q Position) bool {
	return p.Offset < q.Offset
}

// BeforeOrEq reports whether p comes before or at q.
func (p Position) BeforeOrEq(q Position) bool {
	return p.Offset <= q.Offset
}

// Range is an end-exclusive span between two positions.
type Range struct {
	Start Position
	End   Position
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Len returns the length, in bytes, of the range.
func (r Range) Len() int {
	return r.End.Offset - r.Start.Offset
}

// Empty reports whether the range spans zero bytes.
func (r Range) Empty() bool {
	return r.Start.Offset == r.End.Offset
}

// Contains reports whether offset falls within [r.Start, r.End).
func (r Range) Contains(offset int) bool {
	return offset >= r.Start.Offset && offset < r.End.Offset
}

// OverlapsOffsets reports whether r intersects the end-exclusive byte span
// [start, end), per spec.md's definition: start < r.End ∧ end > r.Start.
func (r Range) OverlapsOffsets(start, end int) bool {
	return start < r.End.Offset && end > r.Start.Offset
}

// Shift returns a copy of r with both endpoints' offsets adjusted by
// offsetDelta. Line/column are left untouched; incremental's shiftRange
// recomputes those from the shifted offsets with a LineIndex over the new
// text instead.
func (r Range) Shift(offsetDelta int) Range {
	r.Start.Offset += offsetDelta
	r.End.Offset += offsetDelta
	return r
}
