// Package commands implements the authproxy CLI surface over the SDK.
package commands
