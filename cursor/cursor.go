// Package cursor implements spec.md §4.6's edit-synthesis layer: given a
// ParseResult and a JSON path, it resolves a short-lived Cursor over the
// parsed tree and synthesizes minimal TextEdits for set/insert/remove
// operations against the original source text.
//
// Adapted from handler/textutils/textutils.go's ApplyTextChange/
// ExtractRange/GetOffset: the teacher computes a byte offset from an LSP
// position and splices text at it. Here the offsets come from the parsed
// tree and token stream instead of an LSP position, but the underlying
// discipline — locate an offset, splice text there, never touch anything
// outside the computed span — is the same one the teacher's offset
// arithmetic follows.
package cursor

import (
	"strconv"
	"strings"

	"github.com/jsonmend/jsonmend/jsonvalue"
	"github.com/jsonmend/jsonmend/parse"
	"github.com/jsonmend/jsonmend/position"
	"github.com/pkg/errors"
)

// Kind identifies what a Cursor points at.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindProperty
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "Object"
	case KindArray:
		return "Array"
	case KindProperty:
		return "Property"
	case KindValue:
		return "Value"
	default:
		return "Unknown"
	}
}

// Cursor is a short-lived view over one node of a parsed value tree, per
// spec.md's Cursor row: path, kind, optional name/value ranges, the
// parent's path, and the resolved node. Mutating the document text
// invalidates every Cursor derived from it.
type Cursor struct {
	Path         string
	Kind         Kind
	NameRange    *position.Range
	ValueRange   *position.Range
	ParentPath   string
	ResolvedNode *jsonvalue.Value

	parent *jsonvalue.Value
}

// TextEdit is a single replacement of [Range.Start, Range.End) with
// NewText, expressed in the coordinates of the text the Cursor was
// derived from.
type TextEdit struct {
	Range   position.Range
	NewText string
}

// FromPath resolves path against result's parsed tree. Returns nil if
// result has no root, or if any segment of path does not resolve.
func FromPath(result parse.Result, path string) *Cursor {
	if result.Root == nil {
		return nil
	}
	if path == "" {
		c := &Cursor{Path: "", Kind: kindOf(result.Root), ResolvedNode: result.Root}
		if pr, ok := result.PathRanges[""]; ok {
			c.NameRange, c.ValueRange = pr.NameRange, pr.ValueRange
		}
		return c
	}

	segs := splitPath(path)
	node := result.Root
	var parent *jsonvalue.Value
	parentPath := ""
	for i, seg := range segs {
		parent = node
		if seg.isIndex {
			node = node.Index(seg.index)
		} else {
			node = node.Get(seg.name)
		}
		if node == nil {
			return nil
		}
		if i < len(segs)-1 {
			parentPath = seg.appendTo(parentPath)
		}
	}

	last := segs[len(segs)-1]
	kind := kindOf(node)
	if !last.isIndex {
		kind = KindProperty
	}

	c := &Cursor{
		Path:         path,
		Kind:         kind,
		ParentPath:   parentPath,
		ResolvedNode: node,
		parent:       parent,
	}
	if pr, ok := result.PathRanges[path]; ok {
		c.NameRange, c.ValueRange = pr.NameRange, pr.ValueRange
	}
	return c
}

func kindOf(v *jsonvalue.Value) Kind {
	if v == nil {
		return KindValue
	}
	switch v.Kind {
	case jsonvalue.KindObject:
		return KindObject
	case jsonvalue.KindArray:
		return KindArray
	default:
		return KindValue
	}
}

// Set returns a TextEdit replacing the cursor's full value span with the
// serialized form of newValue. Requires a known valueRange (spec.md §4.6).
func (c *Cursor) Set(text string, newValue *jsonvalue.Value) (TextEdit, error) {
	if c == nil || c.ValueRange == nil || c.ResolvedNode == nil {
		return TextEdit{}, errors.New("cursor: Set requires a cursor with a known valueRange")
	}
	start := c.ResolvedNode.Pos.Offset
	end, err := valueEnd(text, start)
	if err != nil {
		return TextEdit{}, errors.Wrap(err, "cursor: Set")
	}
	return TextEdit{Range: offsetRange(text, start, end), NewText: jsonvalue.Marshal(newValue)}, nil
}

// objectTarget returns the Object node an insertProperty/removeProperty(name)
// call against c should operate on: c itself when c is an Object cursor
// (including an array element that resolved to an object), or c's
// resolved value when c is a Property cursor over an Object.
func (c *Cursor) objectTarget() *jsonvalue.Value {
	if c == nil || c.ResolvedNode == nil || c.ResolvedNode.Kind != jsonvalue.KindObject {
		return nil
	}
	if c.Kind == KindObject || c.Kind == KindProperty {
		return c.ResolvedNode
	}
	return nil
}

// arrayTarget mirrors objectTarget for Array cursors / Property cursors
// over an Array.
func (c *Cursor) arrayTarget() *jsonvalue.Value {
	if c == nil || c.ResolvedNode == nil || c.ResolvedNode.Kind != jsonvalue.KindArray {
		return nil
	}
	if c.Kind == KindArray || c.Kind == KindProperty {
		return c.ResolvedNode
	}
	return nil
}

// InsertProperty inserts name: value into the object c targets, per
// spec.md §4.6's "Insert property": locate the object's brace span,
// decide whether a leading comma is needed, compute the base indentation
// of the line holding '{' plus one indent unit, and insert just before
// the closing '}'.
func (c *Cursor) InsertProperty(text string, name string, value *jsonvalue.Value) (TextEdit, error) {
	obj := c.objectTarget()
	if obj == nil {
		return TextEdit{}, errors.New("cursor: insertProperty requires an Object cursor or a Property cursor over an Object")
	}
	braceOpen := obj.Pos.Offset
	braceClose, err := matchBracket(text, braceOpen, '{', '}')
	if err != nil {
		return TextEdit{}, errors.Wrap(err, "cursor: insertProperty")
	}

	baseIndent := lineIndent(text, braceOpen)
	indent := baseIndent + indentUnit

	var b strings.Builder
	if len(obj.Object) > 0 {
		b.WriteByte(',')
	}
	b.WriteByte('\n')
	b.WriteString(indent)
	b.WriteString(strconv.Quote(name))
	b.WriteString(": ")
	b.WriteString(jsonvalue.Marshal(value))
	b.WriteByte('\n')
	b.WriteString(baseIndent)

	return TextEdit{Range: offsetRange(text, braceClose, braceClose), NewText: b.String()}, nil
}

// InsertArrayItem inserts value into the array c targets. index == -1
// appends; otherwise the item is inserted immediately after the element
// currently at index, per spec.md §4.6's "Insert array item".
func (c *Cursor) InsertArrayItem(text string, index int, value *jsonvalue.Value) (TextEdit, error) {
	arr := c.arrayTarget()
	if arr == nil {
		return TextEdit{}, errors.New("cursor: insertArrayItem requires an Array cursor or a Property cursor over an Array")
	}
	if index < 0 {
		return insertArrayAppend(text, arr, value)
	}
	if index >= len(arr.Array) {
		return TextEdit{}, errors.Errorf("cursor: index %d out of range for %d-element array", index, len(arr.Array))
	}
	elemStart := arr.Array[index].Pos.Offset
	elemEnd, err := valueEnd(text, elemStart)
	if err != nil {
		return TextEdit{}, errors.Wrap(err, "cursor: insertArrayItem")
	}
	newText := ", " + jsonvalue.Marshal(value)
	return TextEdit{Range: offsetRange(text, elemEnd, elemEnd), NewText: newText}, nil
}

func insertArrayAppend(text string, arr *jsonvalue.Value, value *jsonvalue.Value) (TextEdit, error) {
	bracketOpen := arr.Pos.Offset
	bracketClose, err := matchBracket(text, bracketOpen, '[', ']')
	if err != nil {
		return TextEdit{}, errors.Wrap(err, "cursor: insertArrayItem")
	}
	var newText string
	if len(arr.Array) == 0 {
		newText = " " + jsonvalue.Marshal(value) + " "
	} else {
		newText = ", " + jsonvalue.Marshal(value)
	}
	return TextEdit{Range: offsetRange(text, bracketClose, bracketClose), NewText: newText}, nil
}

// RemoveProperty removes the named property from the object c targets,
// per spec.md §4.6's "Remove property": the full name-through-value span
// plus at most one adjacent comma.
func (c *Cursor) RemoveProperty(text string, name string) (TextEdit, error) {
	obj := c.objectTarget()
	if obj == nil {
		return TextEdit{}, errors.New("cursor: removeProperty requires an Object cursor or a Property cursor over an Object")
	}
	idx := obj.PropertyIndex(name)
	if idx < 0 {
		return TextEdit{}, errors.Errorf("cursor: no property %q", name)
	}
	return removePropertyAt(text, obj, idx)
}

// RemoveArrayItem removes the element at index from the array c targets.
func (c *Cursor) RemoveArrayItem(text string, index int) (TextEdit, error) {
	arr := c.arrayTarget()
	if arr == nil {
		return TextEdit{}, errors.New("cursor: removeArrayItem requires an Array cursor or a Property cursor over an Array")
	}
	if index < 0 || index >= len(arr.Array) {
		return TextEdit{}, errors.Errorf("cursor: index %d out of range for %d-element array", index, len(arr.Array))
	}
	return removeArrayItemAt(text, arr, index)
}

// RemoveSelf removes the node c points at from its parent, per spec.md
// §4.6's "Remove self": a Property cursor removes itself from its
// parent object; a cursor whose parent is an Array removes itself by
// index; anything else fails.
func (c *Cursor) RemoveSelf(text string) (TextEdit, error) {
	if c == nil {
		return TextEdit{}, errors.New("cursor: nil cursor")
	}
	if c.Kind == KindProperty {
		if c.parent == nil || c.parent.Kind != jsonvalue.KindObject {
			return TextEdit{}, errors.New("cursor: property cursor has no object parent")
		}
		name := lastSegment(c.Path)
		idx := c.parent.PropertyIndex(name)
		if idx < 0 {
			return TextEdit{}, errors.Errorf("cursor: property %q not found in parent", name)
		}
		return removePropertyAt(text, c.parent, idx)
	}
	if c.parent != nil && c.parent.Kind == jsonvalue.KindArray {
		idx := arrayIndexOf(c.parent, c.ResolvedNode)
		if idx < 0 {
			return TextEdit{}, errors.New("cursor: element not found in parent array")
		}
		return removeArrayItemAt(text, c.parent, idx)
	}
	return TextEdit{}, errors.New("cursor: removeSelf requires a Property cursor or an array element")
}

// RemoveAt is the static convenience spec.md §6 lists alongside the
// Cursor methods: resolve path and remove it in one call.
func RemoveAt(text string, result parse.Result, path string) (TextEdit, error) {
	c := FromPath(result, path)
	if c == nil {
		return TextEdit{}, errors.Errorf("cursor: no node at path %q", path)
	}
	return c.RemoveSelf(text)
}

func arrayIndexOf(arr *jsonvalue.Value, node *jsonvalue.Value) int {
	for i, item := range arr.Array {
		if item == node {
			return i
		}
	}
	return -1
}
