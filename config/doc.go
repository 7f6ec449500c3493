// Package config loads SDK configuration from environment variables.
//
// Every knob has a safe default so the zero-configuration path works against
// a local server. All variables carry the AUTHPROXY_ prefix.
package config
