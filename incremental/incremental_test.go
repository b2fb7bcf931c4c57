package incremental

import (
	"context"
	"strings"
	"testing"

	"github.com/jsonmend/jsonmend/parse"
	"github.com/jsonmend/jsonmend/token"
	"github.com/stretchr/testify/require"
)

func TestUpdateRawTextMatchesManualSplice(t *testing.T) {
	text := `{ "arr": [1] }`
	off := strings.Index(text, "]")
	change := TextChange{StartOffset: off, EndOffset: off, NewText: ", 2"}
	oldTokens, err := token.Tokenize(context.Background(), text)
	require.NoError(t, err)

	newText, _, _, _, err := Update(context.Background(), text, oldTokens, []TextChange{change}, 0)
	require.NoError(t, err)
	require.Equal(t, `{ "arr": [1, 2] }`, newText)
}

func TestUpdateSplicesBeforeWindowAfter(t *testing.T) {
	text := `{"a": 1, "b": 2, "c": 3}`
	oldTokens, err := token.Tokenize(context.Background(), text)
	require.NoError(t, err)

	off := strings.Index(text, `"b": 2`)
	change := TextChange{StartOffset: off + 6, EndOffset: off + 6, NewText: "0"}
	newText, newTokens, windowStart, windowEnd, err := Update(context.Background(), text, oldTokens, []TextChange{change}, 2)
	require.NoError(t, err)
	require.Equal(t, `{"a": 1, "b": 20, "c": 3}`, newText)
	require.True(t, windowEnd > windowStart)

	freshTokens, err := token.Tokenize(context.Background(), newText)
	require.NoError(t, err)
	require.Equal(t, len(freshTokens), len(newTokens))
	for i := range freshTokens {
		require.Equal(t, freshTokens[i].Kind, newTokens[i].Kind)
		require.Equal(t, freshTokens[i].Range.Start.Offset, newTokens[i].Range.Start.Offset)
		require.Equal(t, freshTokens[i].Range.End.Offset, newTokens[i].Range.End.Offset)
	}
}

func TestApplyChangesInvalidatesOverlappingPathRange(t *testing.T) {
	text := `{"a": 1, "b": 2}`
	result, err := parse.Parse(context.Background(), text, parse.Options{ProduceTokenSpans: true, ProducePathMap: true})
	require.NoError(t, err)
	require.True(t, result.Success)

	off := strings.Index(text, `"a": 1`)
	change := TextChange{StartOffset: off + 5, EndOffset: off + 6, NewText: "9"}
	_, _, newPathRanges, _, _, err := ApplyChanges(context.Background(), text, result.Tokens, result.PathRanges, []TextChange{change}, 4)
	require.NoError(t, err)

	_, aStillPresent := newPathRanges["a"]
	require.False(t, aStillPresent, "edited property's entry should be invalidated")

	bEntry, ok := newPathRanges["b"]
	require.True(t, ok)
	require.NotNil(t, bEntry.ValueRange)
}

func TestApplyChangesWithReparseBuildsNewPathMap(t *testing.T) {
	text := `{ "arr": [1] }`
	result, err := parse.Parse(context.Background(), text, parse.Options{ProduceTokenSpans: true})
	require.NoError(t, err)
	require.True(t, result.Success)

	off := strings.Index(text, "]")
	change := TextChange{StartOffset: off, EndOffset: off, NewText: ", 2"}
	newText, _, newPathRanges, newResult, err := ApplyChangesWithReparse(context.Background(), text, result.Tokens, []TextChange{change}, parse.Options{}, 0)
	require.NoError(t, err)
	require.Equal(t, `{ "arr": [1, 2] }`, newText)
	require.True(t, newResult.Success)
	_, ok := newPathRanges["arr[1]"]
	require.True(t, ok)
}

func TestUpdateNoChangesReturnsOldTokens(t *testing.T) {
	text := `{"a": 1}`
	oldTokens, err := token.Tokenize(context.Background(), text)
	require.NoError(t, err)
	newText, newTokens, windowStart, windowEnd, err := Update(context.Background(), text, oldTokens, nil, 0)
	require.NoError(t, err)
	require.Equal(t, text, newText)
	require.Equal(t, 0, windowStart)
	require.Equal(t, 0, windowEnd)
	require.Equal(t, len(oldTokens), len(newTokens))
}
