package apimodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-game-portal/session"
)

// Long is a 64-bit integer that the backend sometimes serialises as {"low":..,"high":..,"unsigned":..}.
// Both forms decode to the same value. It always encodes as a plain JSON number.
type Long int64

func (l *Long) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = 0
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("[apimodel Long] %w", err)
	}

	n, ok := session.Int64(v)
	if !ok {
		return fmt.Errorf("[apimodel Long] not an integer: %s", data)
	}
	*l = Long(n)
	return nil
}

func (l Long) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(l), 10)), nil
}

func (l Long) Int64() int64 {
	return int64(l)
}
