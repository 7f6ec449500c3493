package logging

import (
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "unknown", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tc := range cases {
		got := parseLevel(tc.in)
		if got != tc.want {
			t.Fatalf("parseLevel(%q)=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestPrettyHandler_Line(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	log := NewPretty(&b, "debug", false)

	log.Info("auth.login", "status", "Success", "duration_ms", int64(12))

	line := b.String()
	if !strings.Contains(line, "[INFO]") {
		t.Fatalf("missing level tag: %q", line)
	}
	if !strings.Contains(line, "auth.login") {
		t.Fatalf("missing message: %q", line)
	}
	if !strings.Contains(line, "status=Success") {
		t.Fatalf("missing attr: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("line not newline-terminated: %q", line)
	}
}

func TestPrettyHandler_QuotesValuesWithSpaces(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	log := NewPretty(&b, "info", false)

	log.Warn("push.decode", "err", "invalid character 'x'")

	if !strings.Contains(b.String(), `err="invalid character 'x'"`) {
		t.Fatalf("value with spaces not quoted: %q", b.String())
	}
}

func TestPrettyHandler_LevelFilter(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	log := NewPretty(&b, "error", false)

	log.Info("should.not.appear")
	if b.Len() != 0 {
		t.Fatalf("info record passed an error-level handler: %q", b.String())
	}
}
