package draft

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lifebox/lifebox-cli/internal/model"
)

const (
	maxSourceListLen = 80
	maxSourceLen     = 50
)

// Source coerces the draft "source" value. A blank string or an over-long
// list falls back to hint; a result longer than maxSourceLen is replaced
// by hint when one exists.
func Source(v any, hint string) *string {
	hint = strings.TrimSpace(hint)
	src := coerceSource(v, hint)
	if src != "" && hint != "" && utf8.RuneCountInString(src) > maxSourceLen {
		src = hint
	}
	return model.StringPtr(src)
}

func coerceSource(v any, hint string) string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
	case []any:
		parts := make([]string, 0, len(t))
		for _, x := range t {
			if x == nil {
				continue
			}
			parts = append(parts, fmt.Sprint(x))
		}
		s := strings.TrimSpace(strings.Join(parts, " "))
		if s != "" && utf8.RuneCountInString(s) <= maxSourceListLen {
			return s
		}
	}
	return hint
}

// Assignee accepts only a non-blank string.
func Assignee(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return model.StringPtr(strings.TrimSpace(s))
}

// Status accepts only the exact tokens "pending" and "done".
func Status(v any) model.Status {
	if s, ok := v.(string); ok {
		if st, ok := model.ParseStatus(s); ok {
			return st
		}
	}
	return model.StatusPending
}

// Risk accepts only the exact tokens "high", "mid" and "low".
func Risk(v any, fallback model.Risk) model.Risk {
	if s, ok := v.(string); ok {
		if r, ok := model.ParseRisk(s); ok {
			return r
		}
	}
	return fallback
}

// Actions keeps the allowed tokens of a list in the order given, each once.
// A non-list or a list with no allowed token yields fallback.
func Actions(v any, fallback []model.Action) []model.Action {
	list, ok := v.([]any)
	if !ok {
		return fallback
	}
	var out []model.Action
	seen := make(map[model.Action]bool, len(list))
	for _, x := range list {
		s, ok := x.(string)
		if !ok {
			continue
		}
		if a, ok := model.ParseAction(s); ok && !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Confidence accepts a JSON number or a numeric string, clamped to [0,1].
// Anything else, including NaN and infinities, yields fallback.
func Confidence(v any, fallback float64) float64 {
	f, ok := toFloat(v)
	if !ok {
		f = fallback
	}
	return clamp01(f)
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case json.Number:
		n, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	case int:
		f = float64(t)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
