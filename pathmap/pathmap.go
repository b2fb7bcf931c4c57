// Package pathmap implements spec.md §4.4's Path Map Builder: given a
// parsed value tree and the token stream that produced it, it correlates
// each node's reader-reported position with the token stream and emits a
// mapping from dotted/bracketed JSON path to the source ranges of its
// property name and value.
//
// Grounded on sourcemapper/ino.go's dual-map correlation pattern
// (inoToCpp/cppToIno built by walking one representation and looking up
// positions in another); here the "other representation" is the token
// stream rather than a second source file.
package pathmap

import (
	"fmt"

	"github.com/jsonmend/jsonmend/jsonvalue"
	"github.com/jsonmend/jsonmend/position"
	"github.com/jsonmend/jsonmend/token"
)

// PathRange is one entry of the path map: the source ranges of a node's
// property name (when it has one) and its value. At least one of the two
// is present.
type PathRange struct {
	Path       string
	NameRange  *position.Range
	ValueRange *position.Range
}

// Build walks root depth-first and returns a map keyed by JSON path
// (dotted property chain with "[index]" for arrays). tokens must be the
// token sequence produced from the same text root was parsed from.
func Build(root *jsonvalue.Value, tokens []token.Token) map[string]PathRange {
	m := make(map[string]PathRange)
	if root == nil {
		return m
	}
	byStart := make(map[int]int, len(tokens))
	for i, t := range tokens {
		byStart[t.Range.Start.Offset] = i
	}

	var walk func(path string, v *jsonvalue.Value)
	walk = func(path string, v *jsonvalue.Value) {
		if v == nil {
			return
		}
		switch v.Kind {
		case jsonvalue.KindObject:
			for _, prop := range v.Object {
				propPath := joinProperty(path, prop.Name)
				nameRange, valueRange := lookupProperty(tokens, byStart, prop.NamePos)
				merge(m, propPath, nameRange, valueRange)
				walk(propPath, prop.Value)
			}
		case jsonvalue.KindArray:
			for i, item := range v.Array {
				itemPath := joinIndex(path, i)
				merge(m, itemPath, nil, lookupValue(tokens, byStart, item.Pos))
				walk(itemPath, item)
			}
		}
	}
	walk("", root)
	return m
}

// lookupProperty implements the §4.4 "key identification rule for
// properties": the name token must start at namePos and be a String
// token; the value range is the first non-Comment token after the
// property's colon.
func lookupProperty(tokens []token.Token, byStart map[int]int, namePos position.Position) (name, value *position.Range) {
	idx, ok := byStart[namePos.Offset]
	if !ok || tokens[idx].Kind != token.String {
		return nil, nil
	}
	nameRange := tokens[idx].Range
	name = &nameRange

	j := idx + 1
	for j < len(tokens) && tokens[j].Kind != token.Colon {
		j++
	}
	if j >= len(tokens) {
		return name, nil
	}
	j++
	for j < len(tokens) && tokens[j].Kind == token.Comment {
		j++
	}
	if j >= len(tokens) {
		return name, nil
	}
	valueRange := tokens[j].Range
	return name, &valueRange
}

// lookupValue implements the §4.4 rule for array elements and scalar
// values: find the token whose start matches the node's own position.
func lookupValue(tokens []token.Token, byStart map[int]int, pos position.Position) *position.Range {
	idx, ok := byStart[pos.Offset]
	if !ok {
		return nil
	}
	r := tokens[idx].Range
	return &r
}

// merge implements the §4.5/§5 preservation invariant: a nameRange set by
// a property visit is never clobbered by a later value visit (which only
// ever passes a nil nameRange); valueRange follows "last non-nil wins".
func merge(m map[string]PathRange, path string, nameRange, valueRange *position.Range) {
	entry, ok := m[path]
	if !ok {
		entry = PathRange{Path: path}
	}
	if nameRange != nil {
		entry.NameRange = nameRange
	}
	if valueRange != nil {
		entry.ValueRange = valueRange
	}
	m[path] = entry
}

func joinProperty(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func joinIndex(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
