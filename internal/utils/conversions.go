package utils

import (
	"fmt"
	"strings"
)

func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0)
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

// FlattenMessage renders a decoded JSON message field that may be a string or an
// array of strings. Arrays are joined with ", ". Anything else yields "".
func FlattenMessage(v any) string {
	switch m := v.(type) {
	case nil:
		return ""
	case string:
		return m
	case []string:
		return strings.Join(m, ", ")
	case []any:
		return strings.Join(ToStringSlice(m), ", ")
	case fmt.Stringer:
		return m.String()
	default:
		return ""
	}
}
