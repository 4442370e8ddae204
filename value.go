package dbind

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Document represents a data mapping, defined as an ordered collection of
// key-value pairs. Lookups only ever see the document's own entries.
type Document []Entry

// Array represents an ordered sequence of data values of any type.
type Array []any

// Entry represents a single entry in a document. It consists of a string key and an
// associated value of any type.
type Entry struct {
	Key   string
	Value any
}

// Get returns the value stored under key. When a key occurs more than once the
// last entry wins, matching how a JSON object would be read into a map.
func (d Document) Get(key string) (any, bool) {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].Key == key {
			return d[i].Value, true
		}
	}
	return nil, false
}

// Keys returns the document keys in insertion order, without duplicates.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	seen := make(map[string]struct{}, len(d))
	for _, e := range d {
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		keys = append(keys, e.Key)
	}
	return keys
}

// Kind classifies a data value by shape. Binders switch on it instead of
// inspecting concrete types.
type Kind int

const (
	KindAbsent Kind = iota
	KindPrimitive
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindPrimitive:
		return "primitive"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// KindOf reports the shape of v. Both the ordered types (Document, Array) and
// their plain Go counterparts (map[string]any, []any) are recognized.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindAbsent
	case Array, []any:
		return KindSequence
	case Document, map[string]any:
		return KindMapping
	default:
		return KindPrimitive
	}
}

// Lookup resolves a single key against v using own-entry semantics:
//   - Document        -> entry with a matching key
//   - map[string]any  -> direct index
//   - Array, []any    -> canonical decimal index ("0", "12")
//
// Every other value has no entries and reports false.
func Lookup(v any, key string) (any, bool) {
	switch t := v.(type) {
	case Document:
		return t.Get(key)
	case map[string]any:
		val, ok := t[key]
		return val, ok
	case Array:
		return index([]any(t), key)
	case []any:
		return index(t, key)
	default:
		return nil, false
	}
}

func index(items []any, key string) (any, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= len(items) || strconv.Itoa(i) != key {
		return nil, false
	}
	return items[i], true
}

// Resolve walks path through v one Lookup at a time. If any segment is not
// found the whole path is missing.
func Resolve(v any, path []string) (any, bool) {
	cur := v
	for _, seg := range path {
		next, ok := Lookup(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Keys returns the keys of a mapping value. Documents keep insertion order;
// plain maps are sorted so iteration stays deterministic. Non-mappings have no
// keys.
func Keys(v any) []string {
	switch t := v.(type) {
	case Document:
		return t.Keys()
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return keys
	default:
		return nil
	}
}

// Display returns the string form of v used as element text. Null displays as
// the empty string. Mappings and sequences have no useful text form and are
// rendered as compact JSON.
func Display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case Document, Array, map[string]any, []any:
		b, err := json.Marshal(t, json.WithMarshalers(Marshalers()), json.Deterministic(true))
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// formatNumber prints f in fixed notation between 1e-6 and 1e21 and in
// exponent form ("1e-7", "1.5e+21") outside that range.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// Marshalers returns the marshalers that encode a Document as a JSON object in
// entry order. Arrays need no special handling beyond their elements.
func Marshalers() *json.Marshalers {
	return json.MarshalToFunc(func(enc *jsontext.Encoder, d Document) error {
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return fmt.Errorf("write object open: %w", err)
		}
		for _, e := range d {
			if err := enc.WriteToken(jsontext.String(e.Key)); err != nil {
				return fmt.Errorf("write object key %q: %w", e.Key, err)
			}
			if err := json.MarshalEncode(enc, e.Value); err != nil {
				return fmt.Errorf("write object value for key %q: %w", e.Key, err)
			}
		}
		if err := enc.WriteToken(jsontext.EndObject); err != nil {
			return fmt.Errorf("write object close: %w", err)
		}
		return nil
	})
}
