package models

import "time"

// Helpers for reading loosely typed remote document data. Missing or
// mistyped fields yield zero values; the remote schema has no required
// fields beyond what the documents we write contain.

func docString(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func docBool(data map[string]any, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func docInt(data map[string]any, key string) int64 {
	switch v := data[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// docTime reads a store-native timestamp. Timestamps are kept as time.Time
// end to end so conflict comparison is timezone-free.
func docTime(data map[string]any, key string) time.Time {
	if v, ok := data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}
