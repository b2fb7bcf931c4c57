package jsonvalue

import (
	"strconv"
	"strings"
)

// Marshal serializes v back to compact JSON text. cursor's Set and insert
// operations use it to serialize the new value they splice in; the rest of
// the document is never re-serialized, and parsing never calls it.
func Marshal(v *Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v *Value) {
	if v == nil {
		b.WriteString("null")
		return
	}
	switch v.Kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		if v.NumberLiteral != "" {
			b.WriteString(v.NumberLiteral)
		} else {
			b.WriteString(strconv.FormatFloat(v.Number, 'g', -1, 64))
		}
	case KindString:
		writeQuotedString(b, v.String)
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.Array {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, item)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, p := range v.Object {
			if i > 0 {
				b.WriteByte(',')
			}
			writeQuotedString(b, p.Name)
			b.WriteByte(':')
			writeValue(b, p.Value)
		}
		b.WriteByte('}')
	}
}

func writeQuotedString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				for i := len(hex); i < 4; i++ {
					b.WriteByte('0')
				}
				b.WriteString(hex)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
