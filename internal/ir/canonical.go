package ir

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Canonical is implemented by recorded types that have a canonical form.
// CanonicalValue returns a tree of map[string]any, []any, string, int64 and
// bool that MarshalCanonical accepts.
type Canonical interface {
	CanonicalValue() any
}

// MarshalCanonical produces RFC 8785 canonical JSON.
// CRITICAL: This is the ONLY serialization used for trace hashes and golden
// files.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats, no null (both return an error)
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case Canonical:
		return writeCanonical(buf, val.CanonicalValue())
	case string:
		return writeCanonicalString(buf, val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case int:
		fmt.Fprintf(buf, "%d", val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case []int64:
		buf.WriteByte('[')
		for i, n := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(buf, "%d", n)
		}
		buf.WriteByte(']')
	case []int:
		buf.WriteByte('[')
		for i, n := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(buf, "%d", n)
		}
		buf.WriteByte(']')
	case []string:
		buf.WriteByte('[')
		for i, s := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, s); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		buf.WriteByte('{')
		for i, k := range sortedKeys(val) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case float32, float64:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeCanonicalString writes s NFC normalized with only control characters,
// backslash and quote escaped. U+2028 and U+2029 are written as-is per
// RFC 8785.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	s = norm.NFC.String(strings.ToValidUTF8(s, "\uFFFD"))
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
	return nil
}

// sortedKeys returns keys in RFC 8785 order (UTF-16 code units).
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return compareUTF16(keys[i], keys[j]) < 0
	})
	return keys
}

// compareUTF16 compares two strings by UTF-16 code units.
// CRITICAL: Must use unicode/utf16.Encode for correct surrogate handling.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	return len(a16) - len(b16)
}

// CanonicalValue implements Canonical.
func (c Coord) CanonicalValue() any {
	return map[string]any{"row": c.Row, "col": c.Col}
}

func coordList(cs []Coord) []any {
	out := make([]any, len(cs))
	for i, c := range cs {
		out[i] = c.CanonicalValue()
	}
	return out
}

// CanonicalValue implements Canonical.
func (s SortSnapshot) CanonicalValue() any {
	tags := make([]string, len(s.Tags))
	for i, t := range s.Tags {
		tags[i] = t.String()
	}
	m := map[string]any{
		"values": nonNilInts(s.Values),
		"tags":   tags,
	}
	if len(s.Aux) > 0 {
		m["aux"] = s.Aux
	}
	if s.Milestone {
		m["milestone"] = true
	}
	return m
}

// CanonicalValue implements Canonical.
func (s SearchSnapshot) CanonicalValue() any {
	return map[string]any{
		"current":  s.Current.CanonicalValue(),
		"frontier": coordList(s.Frontier),
		"visited": map[string]any{
			"rows": s.Visited.Rows,
			"cols": s.Visited.Cols,
			"prev": nonNilIndexes(s.Visited.Prev),
		},
	}
}

// CanonicalValue implements Canonical. Elapsed time is excluded so that
// identical runs produce identical bytes.
func (o Outcome) CanonicalValue() any {
	m := map[string]any{
		"success": o.Success,
		"steps":   o.Steps,
		"metrics": map[string]any{
			"comparisons": o.Metrics.Comparisons,
			"swaps":       o.Metrics.Swaps,
			"accesses":    o.Metrics.Accesses,
			"expanded":    o.Metrics.Expanded,
		},
	}
	if o.Reason != ReasonNone {
		m["reason"] = string(o.Reason)
	}
	if o.Final != nil {
		m["final"] = o.Final
	}
	if o.Order != nil {
		m["order"] = o.Order
	}
	if o.Path != nil {
		m["path"] = coordList(o.Path)
	}
	if o.VisitOrder != nil {
		m["visit_order"] = coordList(o.VisitOrder)
	}
	return m
}

func nonNilInts(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}

func nonNilIndexes(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
