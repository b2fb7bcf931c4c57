package jsonmend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFacadeParseRecoversTrailingComma(t *testing.T) {
	r := ParseDefault(`{ "a": 1, }`, Options{
		EnableSanitizationFallback:     true,
		AllowTrailingCommas:            true,
		IncludeSanitizationDiagnostics: true,
		ProducePathMap:                 true,
	})
	require.True(t, r.Success)
	require.Equal(t, float64(1), r.Root.Get("a").Number)
	require.Contains(t, r.PathRanges, "a")
}

func TestFacadeProcessPrefersStrictWhenCorrect(t *testing.T) {
	pr, err := Process(context.Background(), `{"a": 1}`, ProcessingOptions{Mode: ProcessBoth, Priority: CorrectnessFirst})
	require.NoError(t, err)
	require.Equal(t, "strict", pr.Selected)
}

func TestFacadeApplyChangesThenCursorRemove(t *testing.T) {
	ctx := context.Background()
	text := `{"a": 1, "b": 2}`
	result, err := Parse(ctx, text, Options{ProduceTokenSpans: true, ProducePathMap: true})
	require.NoError(t, err)
	require.True(t, result.Success)

	off := strings.Index(text, `"b": 2`)
	change := TextChange{StartOffset: off + 6, EndOffset: off + 6, NewText: "0"}
	newText, _, _, _, _, err := ApplyChanges(ctx, text, result.Tokens, result.PathRanges, []TextChange{change}, 4)
	require.NoError(t, err)
	require.Equal(t, `{"a": 1, "b": 20}`, newText)

	newResult, err := Parse(ctx, newText, Options{ProducePathMap: true})
	require.NoError(t, err)
	require.True(t, newResult.Success)

	edit, err := RemoveAt(newText, newResult, "a")
	require.NoError(t, err)
	finalText := newText[:edit.Range.Start.Offset] + edit.NewText + newText[edit.Range.End.Offset:]

	finalResult, err := Parse(ctx, finalText, Options{})
	require.NoError(t, err)
	require.True(t, finalResult.Success)
	require.Nil(t, finalResult.Root.Get("a"))
	require.Equal(t, float64(20), finalResult.Root.Get("b").Number)
}

func TestFacadeCommaPolicyRoundTrip(t *testing.T) {
	text := "{\n  \"a\": 1\n  \"b\": 2\n}"
	result := ParseDefault(text, Options{ProduceTokenSpans: true})
	caret := strings.Index(text, "1\n") + 1
	edit, ok := TryInsertCommaBeforeNewline(result.Tokens, caret)
	require.True(t, ok)
	out := text[:edit.Range.Start.Offset] + edit.NewText + text[edit.Range.End.Offset:]
	require.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2\n}", out)
}
