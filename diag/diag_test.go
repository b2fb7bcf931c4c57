package diag

import (
	"testing"

	"github.com/jsonmend/jsonmend/position"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultAndOverride(t *testing.T) {
	require.Equal(t, "E002", InvalidToken.Resolve(nil))
	custom := Resolver(func(k ErrorKey) string {
		if k == InvalidToken {
			return "CUSTOM"
		}
		return ""
	})
	require.Equal(t, "CUSTOM", InvalidToken.Resolve(custom))
	require.Equal(t, "E003", DuplicateKey.Resolve(custom))
}

func TestResolveUnknownKeyFallsBackToName(t *testing.T) {
	require.Equal(t, "Frobnicated", ErrorKey("Frobnicated").Resolve(nil))
}

func TestDefaultSeverity(t *testing.T) {
	require.Equal(t, SeverityError, InvalidToken.DefaultSeverity())
	require.Equal(t, SeverityWarning, TrailingCommasRemoved.DefaultSeverity())
	require.Equal(t, SeverityInfo, BomRemoved.DefaultSeverity())
}

func TestSnippetNoLocation(t *testing.T) {
	idx := position.NewLineIndex("hello world")
	snippet := Snippet(idx, "hello world", 0, 0, 4)
	require.Equal(t, "hello wo", snippet)
}

func TestSnippetShortLine(t *testing.T) {
	idx := position.NewLineIndex(`{ "a": 1, }`)
	snippet := Snippet(idx, `{ "a": 1, }`, 1, 11, 40)
	lines := splitLines(snippet)
	require.Len(t, lines, 2)
	require.Equal(t, `{ "a": 1, }`, lines[0])
	require.True(t, endsWithCaret(lines[1]))
}

func splitLines(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == '\n' {
			out = append(out, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	out = append(out, cur)
	return out
}

func endsWithCaret(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '^'
}
