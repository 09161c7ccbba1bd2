package generative

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// maxSingleTextChars bounds a repaired single-text value (the five-sentence
// description) after concatenation.
const maxSingleTextChars = 1200

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	jsonMarkerRe  = regexp.MustCompile(`(?i)\bjson\s*:`)
)

// Parse converts raw generative output into a JSON object. Ordered attempts,
// first success wins: the whole trimmed string, a fenced code block, the
// outermost brace span, and finally the remainder after a "JSON:" marker.
// Returns nil on total failure; callers treat that as recoverable.
func Parse(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if obj := tryUnmarshal(raw); obj != nil {
		return obj
	}

	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		if obj := tryUnmarshal(strings.TrimSpace(m[1])); obj != nil {
			return obj
		}
	}

	if span := braceSpan(raw); span != "" {
		if obj := tryUnmarshal(span); obj != nil {
			return obj
		}
	}

	if loc := jsonMarkerRe.FindStringIndex(raw); loc != nil {
		rest := strings.TrimSpace(raw[loc[1]:])
		if rest != "" && rest != raw {
			return Parse(rest)
		}
	}

	return nil
}

func tryUnmarshal(s string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}

// braceSpan extracts the outermost {...} span, if any.
func braceSpan(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// RepairSingleText normalizes known shape drift in single-text responses.
// The canonical shape is one string; models occasionally return a list of
// sentences or an object of numbered sentence fields instead. One explicit
// case per malformed shape; never fails, returns "" for shapes with no text.
// The second return reports whether a repair was applied.
func RepairSingleText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return truncateText(strings.TrimSpace(v)), false

	case []any:
		// List of sentences: concatenate in order.
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			if s, ok := elem.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return truncateText(strings.Join(parts, " ")), true

	case map[string]any:
		// Object of sentence fields: concatenate values in key order so the
		// result is deterministic.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s, ok := v[k].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return truncateText(strings.Join(parts, " ")), true

	default:
		return "", true
	}
}

func truncateText(s string) string {
	if len(s) <= maxSingleTextChars {
		return s
	}
	cut := s[:maxSingleTextChars]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
