package config

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	// BaseURL is the AuthProxy server base URL; relative protocol paths such
	// as auth/v1/login are resolved against it.
	BaseURL string

	// ClientName identifies this client application to the server.
	ClientName string

	LogLevel string

	// HTTPTimeout bounds a single request/response exchange. The push
	// subscription is exempt; it is a long-lived stream.
	HTTPTimeout time.Duration

	// StateFile is where the device identifier is persisted. Empty disables
	// persistence; the device id then lives in memory only.
	StateFile string

	// PushBuffer is the capacity of the decoded push-message queue.
	PushBuffer int
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		BaseURL:     EnvString("AUTHPROXY_BASE_URL", "http://localhost:8080"),
		ClientName:  EnvString("AUTHPROXY_CLIENT_NAME", "authproxy-go"),
		LogLevel:    EnvString("AUTHPROXY_LOG_LEVEL", "info"),
		HTTPTimeout: EnvDuration("AUTHPROXY_HTTP_TIMEOUT", 30*time.Second),
		StateFile:   EnvString("AUTHPROXY_STATE_FILE", ""),
		PushBuffer:  EnvInt("AUTHPROXY_PUSH_BUFFER", 64),
	}
}
