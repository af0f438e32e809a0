package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	folderEnvVar     = "FOLDER"
	backendURLEnvVar = "BACKEND_URL"
	logLevelEnvVar   = "LOG_LEVEL"
	languageEnvVar   = "LANGUAGE"
	envEnvVar        = "ENV"
)

// Values holds configuration read from a file, keyed by environment variable name.
type Values map[string]string

func (v Values) get(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	if value, ok := v[envVar]; ok && value != "" {
		return value
	}
	return defaultValue
}

type EnvVars struct {
	values Values
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.values.get(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.values.get(appNameVar, "Game Portal")
}

// GetBackendURL returns the base URL of the remote game backend the proxy forwards to.
func (e EnvVars) GetBackendURL() string {
	return strings.TrimRight(e.values.get(backendURLEnvVar, "http://localhost:3000"), "/")
}

func (e EnvVars) GetDataFolder() string {
	return e.values.get(folderEnvVar, "./data")
}

// GetSessionFile is where the CLI keeps its credential store.
func (e EnvVars) GetSessionFile() string {
	return filepath.Join(e.GetDataFolder(), "session.db")
}

func (e EnvVars) GetLogLevel() string {
	return e.values.get(logLevelEnvVar, "info")
}

func (e EnvVars) GetLanguage() string {
	return e.values.get(languageEnvVar, "vi")
}

func (e EnvVars) GetEnv() string {
	return e.values.get(envEnvVar, "DEV")
}
