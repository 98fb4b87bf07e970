// Package draft parses the loosely formatted JSON a language model returns
// and coerces each of its fields into the TaskRecord contract.
package draft

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Draft is a parsed model proposal. The zero value means no draft is
// available; every accessor on it reports absence.
type Draft struct {
	fields map[string]any
}

// Parse extracts a JSON object from raw. It first decodes raw as a whole;
// if that fails or yields a non-object it decodes the slice between the
// first '{' and the last '}'. Anything else yields the empty Draft.
func Parse(raw string) Draft {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Draft{}
	}
	if m, ok := decodeObject(raw); ok {
		return Draft{fields: m}
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if m, ok := decodeObject(raw[start : end+1]); ok {
			return Draft{fields: m}
		}
	}
	zap.L().Debug("draft: no JSON object in model output", zap.Int("len", len(raw)))
	return Draft{}
}

func decodeObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// Present reports whether the draft carries any field.
func (d Draft) Present() bool {
	return len(d.fields) > 0
}

// Get returns the raw value for key, or nil.
func (d Draft) Get(key string) any {
	if d.fields == nil {
		return nil
	}
	return d.fields[key]
}

// String returns the trimmed value for key when it is a non-blank string.
func (d Draft) String(key string) (string, bool) {
	s, ok := d.Get(key).(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
