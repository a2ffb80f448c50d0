// Package attrs reads values out of loosely-shaped records such as the
// verbatim registry snapshot. Missing keys and mismatched types read as zero.
package attrs

import (
	"fmt"
	"strings"
)

// String returns m[key] as a trimmed string. Numbers are formatted.
func String(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%.0f", v)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

// Map returns m[key] as a nested record.
func Map(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

// Records returns m[key] as a list of records, skipping non-record items.
func Records(m map[string]any, key string) []map[string]any {
	items, ok := m[key].([]any)
	if !ok {
		if typed, ok := m[key].([]map[string]any); ok {
			return typed
		}
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

// FirstString returns the first non-empty string among keys.
func FirstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := String(m, k); v != "" {
			return v
		}
	}
	return ""
}
