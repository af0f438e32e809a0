package apimodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Message is a backend "message" field. Validation failures arrive as a list of strings and
// everything else as a single string; both decode here. String joins lists with ", ".
type Message []string

func (m *Message) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = nil
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("[apimodel Message] %w", err)
		}
		out := make(Message, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		*m = out
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("[apimodel Message] %w", err)
	}
	*m = Message{s}
	return nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	if len(m) == 1 {
		return json.Marshal(m[0])
	}
	return json.Marshal([]string(m))
}

func (m Message) String() string {
	return strings.Join(m, ", ")
}
