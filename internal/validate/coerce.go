package validate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// asString renders scalar JSON values as text
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// asFloat accepts numbers, numeric strings and percentages ("85%")
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		if strings.HasSuffix(strings.TrimSpace(t), "%") {
			f /= 100
		}
		return f, true
	default:
		return 0, false
	}
}

// asStringList keeps the non-empty strings of a JSON array. Anything that
// is not an array yields an empty list.
func asStringList(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// normalizeConfidence converts a raw confidence onto [0,1]. Values above 1
// are read as percentages.
func normalizeConfidence(v any, fallback float64) float64 {
	f, ok := asFloat(v)
	if !ok {
		return fallback
	}
	if f > 1 {
		f /= 100
	}
	return math.Max(0, math.Min(1, f))
}
