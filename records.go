package dbind

import "strings"

// recordSep separates a key from its value in the record format.
const recordSep = ":\t"

// ParseRecords parses the record format into an Array of Documents.
//
// Records are separated by a blank line and hold one "key:<tab>value" pair per
// line:
//
//	name:	Alice
//	email:	alice@example.com
//
//	name:	Bob
//
// Every record ends up with the same keys, in first-seen order across the whole
// input; keys a record does not mention are set to nil. A line without the
// separator yields a key with a nil value. There is no escaping.
func ParseRecords(src string) Array {
	src = strings.ReplaceAll(src, "\r", "")
	chunks := strings.Split(src, "\n\n")

	var names []string
	seen := make(map[string]struct{})
	raw := make([]map[string]any, 0, len(chunks))
	for _, chunk := range chunks {
		// Blank chunks come from a trailing separator or extra blank lines.
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		rec := make(map[string]any)
		for _, line := range strings.Split(chunk, "\n") {
			if line == "" {
				continue
			}
			var v any
			k, val, ok := strings.Cut(line, recordSep)
			if ok {
				v = val
			}
			rec[k] = v
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				names = append(names, k)
			}
		}
		raw = append(raw, rec)
	}

	out := make(Array, 0, len(raw))
	for _, rec := range raw {
		doc := make(Document, 0, len(names))
		for _, k := range names {
			doc = append(doc, Entry{Key: k, Value: rec[k]})
		}
		out = append(out, doc)
	}
	return out
}

// ParseTSV parses tab-separated values into an Array of Documents. The first
// line names the columns; missing trailing fields default to "" and extra
// fields are dropped. There is no quoting or escaping.
func ParseTSV(src string) Array {
	src = strings.ReplaceAll(src, "\r", "")
	lines := strings.Split(src, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return Array{}
	}

	names := strings.Split(lines[0], "\t")
	out := make(Array, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		doc := make(Document, 0, len(names))
		for j, k := range names {
			v := ""
			if j < len(fields) {
				v = fields[j]
			}
			doc = append(doc, Entry{Key: k, Value: v})
		}
		out = append(out, doc)
	}
	return out
}
