package authfetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-game-portal/internal/utils"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("[Response JSON] decode %d body: %w", r.StatusCode, err)
	}
	return nil
}

// Message returns the backend supplied text of an error body: "message" (string, or list
// joined with ", ") first, then "error". Non-JSON bodies are returned trimmed.
func (r *Response) Message() string {
	var body map[string]any
	if err := json.Unmarshal(r.Body, &body); err != nil {
		if isJSON(r.Header) {
			return ""
		}
		return strings.TrimSpace(string(r.Body))
	}
	if m := utils.FlattenMessage(body["message"]); m != "" {
		return m
	}
	return utils.FlattenMessage(body["error"])
}

func isJSON(h http.Header) bool {
	return strings.Contains(h.Get("Content-Type"), "json")
}
