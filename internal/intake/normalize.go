package intake

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexStrings absorbs list-typed fields that arrive either as a JSON
// array of strings or as a single comma/newline-joined string. The
// decoded value is always a normalized list.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = NormalizeList(arr)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = NormalizeList(SplitList(s))
		return nil
	}

	// Unusable shape (number, object, null) — treat as absent.
	*f = nil
	return nil
}

// FlexInt absorbs numeric fields that arrive as a JSON number or as a
// numeric string. Unparsable values decode to absent, never to an error.
type FlexInt struct {
	Value *int
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	f.Value = nil

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		v := int(n)
		f.Value = &v
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, ok := ParseCount(s); ok {
			f.Value = &v
		}
	}
	return nil
}

// Ptr returns the decoded value, nil when absent.
func (f FlexInt) Ptr() *int { return f.Value }

// ParseCount parses a numeric string, tolerating surrounding whitespace
// and thousands separators ("80,000"). The second return is false when
// the value is unusable.
func ParseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SplitList splits a joined list string on commas, semicolons and
// newlines.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
}

// NormalizeList trims entries and drops empties, preserving order.
// Normalizing an already-normalized list is a no-op.
func NormalizeList(items []string) []string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
