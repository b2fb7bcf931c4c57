package parse

import (
	"context"
	"testing"

	"github.com/jsonmend/jsonmend/diag"
	"github.com/jsonmend/jsonmend/jsonvalue"
	"github.com/stretchr/testify/require"
)

func tolerant() Options {
	return Options{
		NormalizeLineEndings:           true,
		AllowComments:                  true,
		EnableSanitizationFallback:     true,
		EnableAggressiveRecovery:       true,
		AllowTrailingCommas:            true,
		RemoveControlCharacters:        true,
		FixUnterminatedStrings:         true,
		RecoverMissingCommas:           true,
		RecoverMissingClosers:          true,
		ReturnSanitizedText:            true,
		IncludeSanitizationDiagnostics: true,
		ProduceTokenSpans:              true,
		ProducePathMap:                 true,
	}
}

func hasCode(diags []diag.Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestParseTrailingCommaInObject(t *testing.T) {
	r := ParseDefault(`{ "a": 1, }`, tolerant())
	require.True(t, r.Success)
	require.True(t, hasCode(r.Diagnostics, diag.TrailingCommasRemoved.DefaultCode()))
	require.Equal(t, jsonvalue.KindObject, r.Root.Kind)
	a := r.Root.Get("a")
	require.NotNil(t, a)
	require.Equal(t, float64(1), a.Number)
}

func TestParseTrailingCommaInArray(t *testing.T) {
	r := ParseDefault(`[1, 2, ]`, tolerant())
	require.True(t, r.Success)
	require.True(t, hasCode(r.Diagnostics, diag.TrailingCommasRemoved.DefaultCode()))
	require.Equal(t, jsonvalue.KindArray, r.Root.Kind)
	require.Len(t, r.Root.Array, 2)
}

func TestParseBOMAndCRLFAndComment(t *testing.T) {
	input := "\xef\xbb\xbf{\r\n  // c\r\n  \"n\": 1,\r\n}\r\n"
	r := ParseDefault(input, tolerant())
	require.True(t, r.Success)
	require.Equal(t, float64(1), r.Root.Get("n").Number)
	require.True(t, hasCode(r.Diagnostics, diag.BomRemoved.DefaultCode()))
	require.True(t, hasCode(r.Diagnostics, diag.LineEndingsNormalized.DefaultCode()))
}

func TestParseDoubleCommaStrictFails(t *testing.T) {
	opts := Options{AllowComments: false}
	r := ParseDefault(`{ "a": 1,, "b": 2 }`, opts)
	require.False(t, r.Success)
	require.Len(t, r.Diagnostics, 1)
	d := r.Diagnostics[0]
	require.Equal(t, diag.InvalidToken.DefaultCode(), d.Code)
	require.NotNil(t, d.Range)
	require.NotEmpty(t, d.Snippet)
}

func TestParseDuplicateKeyError(t *testing.T) {
	opts := Options{DuplicatePropertyHandling: DuplicateKeyError}
	r := ParseDefault(`{ "a": 1, "a": 2 }`, opts)
	require.False(t, r.Success)
	d := r.Diagnostics[len(r.Diagnostics)-1]
	require.Equal(t, diag.DuplicateKey.DefaultCode(), d.Code)
	require.NotEmpty(t, d.Path)
	require.NotNil(t, d.Range)
}

func TestParseDuplicateKeyKeepFirst(t *testing.T) {
	opts := Options{DuplicatePropertyHandling: DuplicateKeyKeepFirst}
	r := ParseDefault(`{ "a": 1, "a": 2 }`, opts)
	require.True(t, r.Success)
	require.Equal(t, float64(1), r.Root.Get("a").Number)
}

func TestParseDuplicateKeyOverwriteWithLast(t *testing.T) {
	opts := Options{DuplicatePropertyHandling: DuplicateKeyOverwriteWithLast}
	r := ParseDefault(`{ "a": 1, "a": 2 }`, opts)
	require.True(t, r.Success)
	require.Equal(t, float64(2), r.Root.Get("a").Number)
	require.Len(t, r.Root.Object, 1)
}

func TestParseEmptyInputIsNoContent(t *testing.T) {
	r := ParseDefault("", tolerant())
	require.False(t, r.Success)
	require.Equal(t, diag.NoContent.DefaultCode(), r.Diagnostics[0].Code)
	require.Empty(t, r.Tokens)
}

func TestParseSizeLimitExceeded(t *testing.T) {
	opts := tolerant()
	opts.MaxDocumentLength = 3
	r := ParseDefault(`{"a":1}`, opts)
	require.False(t, r.Success)
	require.Equal(t, diag.SizeLimitExceeded.DefaultCode(), r.Diagnostics[0].Code)
	require.NotEmpty(t, r.Tokens)
}

func TestParseDepthLimitExceeded(t *testing.T) {
	opts := Options{MaxDepth: 1}
	r := ParseDefault(`{"a": {"b": 1}}`, opts)
	require.False(t, r.Success)
	found := false
	for _, d := range r.Diagnostics {
		if d.Code == diag.DepthLimitExceeded.DefaultCode() {
			found = true
		}
	}
	require.True(t, found)
}

func TestParseUnterminatedPropertyStringClosed(t *testing.T) {
	r := ParseDefault(`{"a: 1}`, tolerant())
	require.True(t, r.Success)
	require.True(t, hasCode(r.Diagnostics, diag.UnterminatedStringsClosed.DefaultCode()))
	require.Equal(t, float64(1), r.Root.Get("a").Number)
}

func TestParsePathMapCoversProperties(t *testing.T) {
	r := ParseDefault(`{"a": {"b": [1, 2]}}`, tolerant())
	require.True(t, r.Success)
	for _, path := range []string{"a", "a.b", "a.b[0]", "a.b[1]"} {
		entry, ok := r.PathRanges[path]
		require.Truef(t, ok, "missing path %s", path)
		require.NotNil(t, entry.ValueRange)
	}
	require.NotNil(t, r.PathRanges["a"].NameRange)
	require.NotNil(t, r.PathRanges["a.b"].NameRange)
}

func TestParseFailurePathRangesEmpty(t *testing.T) {
	opts := Options{ProducePathMap: true}
	r := ParseDefault(`{"a": }`, opts)
	require.False(t, r.Success)
	require.Empty(t, r.PathRanges)
}

func TestParseLeadingPlusNumberRejectedStrict(t *testing.T) {
	opts := Options{}
	r := ParseDefault(`{"a": +1}`, opts)
	require.False(t, r.Success)
}

func TestParseCommentsSkippedWhenAllowed(t *testing.T) {
	opts := Options{AllowComments: true}
	r := ParseDefault("{ /* c */ \"a\": 1 // trailing\n}", opts)
	require.True(t, r.Success)
	require.Equal(t, float64(1), r.Root.Get("a").Number)
}

func TestParseCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	big := make([]byte, 5000)
	for i := range big {
		big[i] = ' '
	}
	big[0] = '{'
	_, err := Parse(ctx, string(big), tolerant())
	require.Error(t, err)
}

func TestParseIdenticalToStrictOnValidInput(t *testing.T) {
	r := ParseDefault(`{"a": 1, "b": [true, false, null, "x"]}`, Options{})
	require.True(t, r.Success)
	require.Empty(t, r.Diagnostics)
	require.Equal(t, float64(1), r.Root.Get("a").Number)
	b := r.Root.Get("b")
	require.Len(t, b.Array, 4)
}
