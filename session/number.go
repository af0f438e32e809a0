package session

import (
	"encoding/json"
	"math"
	"strconv"
)

// Int64 normalises a decoded JSON number. Backend profile numbers arrive either as
// plain numbers (or numeric strings) or as 64-bit wrapper objects
// {"low": int32, "high": int32, "unsigned": bool}.
func Int64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		// -2^63 converts exactly; 2^63 and beyond do not fit.
		if n != math.Trunc(n) || n >= 1<<63 || n < -(1<<63) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case map[string]any:
		return fromLongWrapper(n)
	default:
		return 0, false
	}
}

func fromLongWrapper(m map[string]any) (int64, bool) {
	lowV, okLow := m["low"]
	highV, okHigh := m["high"]
	if !okLow || !okHigh {
		return 0, false
	}
	low, ok := Int64(lowV)
	if !ok {
		return 0, false
	}
	high, ok := Int64(highV)
	if !ok {
		return 0, false
	}
	return FromLowHigh(int32(low), int32(high)), true
}

// FromLowHigh joins the two 32-bit halves of a 64-bit integer.
func FromLowHigh(low, high int32) int64 {
	return int64(uint64(uint32(high))<<32 | uint64(uint32(low)))
}
