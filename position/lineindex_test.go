package position

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineIndexPosition(t *testing.T) {
	text := "foo\nfoobar\nbaz"
	idx := NewLineIndex(text)

	require.Equal(t, Position{Line: 0, Column: 0, Offset: 0}, idx.Position(0))
	require.Equal(t, Position{Line: 0, Column: 3, Offset: 3}, idx.Position(3))
	require.Equal(t, Position{Line: 1, Column: 0, Offset: 4}, idx.Position(4))
	require.Equal(t, Position{Line: 2, Column: 0, Offset: 11}, idx.Position(11))
	require.Equal(t, Position{Line: 2, Column: 3, Offset: 14}, idx.Position(14))
}

func TestLineIndexOffset(t *testing.T) {
	text := "foo\nfoobar\nbaz"
	idx := NewLineIndex(text)

	require.Equal(t, 0, idx.Offset(0, 0))
	require.Equal(t, 4, idx.Offset(1, 0))
	require.Equal(t, 11, idx.Offset(2, 0))
	require.Equal(t, 14, idx.Offset(2, 3))
	// column beyond line length clamps to the line end
	require.Equal(t, 10, idx.Offset(1, 999))
}

func TestLineIndexRoundTrip(t *testing.T) {
	text := "{\n  \"a\": 1,\n  \"b\": 2\n}\n"
	idx := NewLineIndex(text)
	for offset := 0; offset <= len(text); offset++ {
		pos := idx.Position(offset)
		require.Equal(t, offset, idx.Offset(pos.Line, pos.Column), "offset %d", offset)
	}
}

func TestLineText(t *testing.T) {
	text := "foo\r\nbar\nbaz"
	idx := NewLineIndex(text)
	require.Equal(t, "foo", idx.LineText(0))
	require.Equal(t, "bar", idx.LineText(1))
	require.Equal(t, "baz", idx.LineText(2))
}

func TestRangeOverlapsOffsets(t *testing.T) {
	r := Range{Start: Position{Offset: 5}, End: Position{Offset: 10}}
	require.True(t, r.OverlapsOffsets(0, 6))
	require.True(t, r.OverlapsOffsets(9, 20))
	require.False(t, r.OverlapsOffsets(10, 20))
	require.False(t, r.OverlapsOffsets(0, 5))
}
