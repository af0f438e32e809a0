package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config interface {
	EnvConfig
	CorsConfig
	ClientConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBackendURL() string
	GetDataFolder() string
	GetSessionFile() string
	GetLogLevel() string
	GetLanguage() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Client
}

// New returns a Config backed by the process environment and an optional .env file.
func New() Config {
	_ = godotenv.Load()
	return newConfig(nil)
}

// Load is New plus an optional YAML file of KEY: value pairs. Values in the file are
// expanded with os.ExpandEnv and lose to real environment variables.
func Load(path string) (Config, error) {
	_ = godotenv.Load()
	if path == "" {
		return newConfig(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[config Load] read %s: %w", path, err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &raw); err != nil {
		return nil, fmt.Errorf("[config Load] parse %s: %w", path, err)
	}

	values := make(Values, len(raw))
	for k, v := range raw {
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return newConfig(values), nil
}

func newConfig(values Values) Config {
	return mainConfig{
		EnvVars: EnvVars{values: values},
		Cors:    Cors{values: values},
		Client:  Client{values: values},
	}
}
