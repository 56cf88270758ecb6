package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CompactJSON serializes a JSONValue to a compact JSON string: no
// whitespace between tokens, object members in document order, and no
// escaping of non-ASCII or HTML characters. This is the serialization
// used for array-valued cells and structured meta values.
//
// The standard library encoder is unsuitable here twice over: it would
// escape <, > and & even with SetEscapeHTML(false) when re-encoding
// nested MarshalJSON output, and it has no notion of member order for
// maps.
func CompactJSON(v JSONValue) (string, error) {
	var b strings.Builder
	if err := appendCompact(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func appendCompact(b *strings.Builder, v JSONValue) error {
	switch val := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case string:
		appendQuoted(b, val)
	case json.Number:
		b.WriteString(string(val))
	case JSONObject:
		b.WriteByte('{')
		for i, m := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			appendQuoted(b, m.Key)
			b.WriteByte(':')
			if err := appendCompact(b, m.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case JSONArray:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := appendCompact(b, elem); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		return fmt.Errorf("cannot serialize %T as a JSON value", v)
	}
	return nil
}

// appendQuoted writes s as a JSON string literal. Only quotes,
// backslashes and control characters below 0x20 are escaped; anything
// else, including non-ASCII text, is written as-is.
func appendQuoted(b *strings.Builder, s string) {
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
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

// MarshalJSON keeps member order when a JSONObject is handed to the
// standard library encoder.
func (o JSONObject) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	if err := appendCompact(&b, o); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
