package cursor

import (
	"context"
	"testing"

	"github.com/jsonmend/jsonmend/jsonvalue"
	"github.com/jsonmend/jsonmend/parse"
	"github.com/jsonmend/jsonmend/position"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) parse.Result {
	t.Helper()
	r, err := parse.Parse(context.Background(), text, parse.Options{ProduceTokenSpans: true, ProducePathMap: true})
	require.NoError(t, err)
	require.True(t, r.Success)
	return r
}

func apply(text string, edit TextEdit) string {
	return text[:edit.Range.Start.Offset] + edit.NewText + text[edit.Range.End.Offset:]
}

func TestRemovePropertyMiddle(t *testing.T) {
	text := `{ "a": 1, "b": 2, "c": 3 }`
	result := mustParse(t, text)

	c := FromPath(result, "")
	require.NotNil(t, c)
	require.Equal(t, KindObject, c.Kind)

	edit, err := c.RemoveProperty(text, "b")
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Nil(t, again.Root.Get("b"))
	require.Equal(t, float64(1), again.Root.Get("a").Number)
	require.Equal(t, float64(3), again.Root.Get("c").Number)
}

func TestRemoveSelfOnPropertyCursor(t *testing.T) {
	text := `{"a": 1, "b": 2}`
	result := mustParse(t, text)

	c := FromPath(result, "b")
	require.NotNil(t, c)
	require.Equal(t, KindProperty, c.Kind)

	edit, err := c.RemoveSelf(text)
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Nil(t, again.Root.Get("b"))
	require.Equal(t, float64(1), again.Root.Get("a").Number)
}

func TestRemoveFirstPropertyEatsTrailingComma(t *testing.T) {
	text := `{"a": 1, "b": 2}`
	result := mustParse(t, text)

	edit, err := FromPath(result, "").RemoveProperty(text, "a")
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Equal(t, float64(2), again.Root.Get("b").Number)
}

func TestRemoveArrayItemMiddle(t *testing.T) {
	text := `[1, 2, 3]`
	result := mustParse(t, text)

	c := FromPath(result, "")
	require.Equal(t, KindArray, c.Kind)
	edit, err := c.RemoveArrayItem(text, 1)
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Len(t, again.Root.Array, 2)
	require.Equal(t, float64(1), again.Root.Array[0].Number)
	require.Equal(t, float64(3), again.Root.Array[1].Number)
}

func TestRemoveArrayItemLast(t *testing.T) {
	text := `[1, 2, 3]`
	result := mustParse(t, text)

	edit, err := FromPath(result, "").RemoveArrayItem(text, 2)
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Len(t, again.Root.Array, 2)
}

func TestInsertPropertyIntoNonEmptyObject(t *testing.T) {
	text := "{\n  \"a\": 1\n}"
	result := mustParse(t, text)

	edit, err := FromPath(result, "").InsertProperty(text, "b", jsonvalue.NewNumber(2, "2", position.Position{}))
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Equal(t, float64(1), again.Root.Get("a").Number)
	require.Equal(t, float64(2), again.Root.Get("b").Number)
}

func TestInsertPropertyIntoEmptyObject(t *testing.T) {
	text := `{}`
	result := mustParse(t, text)

	edit, err := FromPath(result, "").InsertProperty(text, "a", jsonvalue.NewBool(true, position.Position{}))
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.True(t, again.Root.Get("a").Bool)
}

func TestInsertArrayItemAppend(t *testing.T) {
	text := `[1, 2]`
	result := mustParse(t, text)

	edit, err := FromPath(result, "").InsertArrayItem(text, -1, jsonvalue.NewNumber(3, "3", position.Position{}))
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Len(t, again.Root.Array, 3)
	require.Equal(t, float64(3), again.Root.Array[2].Number)
}

func TestInsertArrayItemAppendToEmpty(t *testing.T) {
	text := `[]`
	result := mustParse(t, text)

	edit, err := FromPath(result, "").InsertArrayItem(text, -1, jsonvalue.NewString("x", position.Position{}))
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Len(t, again.Root.Array, 1)
	require.Equal(t, "x", again.Root.Array[0].String)
}

func TestInsertArrayItemAtIndex(t *testing.T) {
	text := `[1, 3]`
	result := mustParse(t, text)

	edit, err := FromPath(result, "").InsertArrayItem(text, 0, jsonvalue.NewNumber(2, "2", position.Position{}))
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Len(t, again.Root.Array, 3)
	require.Equal(t, float64(2), again.Root.Array[1].Number)
}

func TestSetReplacesScalarValue(t *testing.T) {
	text := `{"a": 1, "b": 2}`
	result := mustParse(t, text)

	c := FromPath(result, "a")
	require.NotNil(t, c)
	edit, err := c.Set(text, jsonvalue.NewNumber(99, "99", position.Position{}))
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Equal(t, float64(99), again.Root.Get("a").Number)
	require.Equal(t, float64(2), again.Root.Get("b").Number)
}

func TestSetReplacesNestedObjectValue(t *testing.T) {
	text := `{"a": {"x": 1}, "b": 2}`
	result := mustParse(t, text)

	c := FromPath(result, "a")
	require.NotNil(t, c)
	edit, err := c.Set(text, jsonvalue.NewNumber(7, "7", position.Position{}))
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Equal(t, float64(7), again.Root.Get("a").Number)
	require.Equal(t, float64(2), again.Root.Get("b").Number)
}

func TestFromPathMissingReturnsNil(t *testing.T) {
	text := `{"a": 1}`
	result := mustParse(t, text)
	require.Nil(t, FromPath(result, "missing"))
}

func TestRemoveAtStaticHelper(t *testing.T) {
	text := `{"a": 1, "b": 2}`
	result := mustParse(t, text)
	edit, err := RemoveAt(text, result, "a")
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Nil(t, again.Root.Get("a"))
	require.Equal(t, float64(2), again.Root.Get("b").Number)
}

func TestRemoveArrayElementViaRemoveSelf(t *testing.T) {
	text := `{"arr": [1, 2, 3]}`
	result := mustParse(t, text)

	c := FromPath(result, "arr[1]")
	require.NotNil(t, c)
	edit, err := c.RemoveSelf(text)
	require.NoError(t, err)
	out := apply(text, edit)

	again, err := parse.Parse(context.Background(), out, parse.Options{})
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Len(t, again.Root.Get("arr").Array, 2)
}
