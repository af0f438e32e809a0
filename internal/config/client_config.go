package config

import (
	"strings"
	"time"
)

type ClientConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetSessionKey() string
}

type Client struct {
	values Values
}

var _ ClientConfig = Client{}

// GetAPIBaseURL is the proxy prefix the session client talks to.
func (c Client) GetAPIBaseURL() string {
	return strings.TrimRight(c.values.get("API_BASE_URL", "http://localhost:8080/api"), "/")
}

// GetRequestTimeout bounds every outbound call. Unparseable values fall back to the default.
func (c Client) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.values.get("REQUEST_TIMEOUT", "15s"))
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func (Client) GetSessionKey() string {
	return "currentUser"
}
