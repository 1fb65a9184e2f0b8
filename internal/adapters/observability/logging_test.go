package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLoggerTagsService(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "api", "prod")
	l.Info().Msg("up")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["service"] != "api" {
		t.Fatalf("service field: %v", line["service"])
	}
}

func TestNewLoggerDevConsole(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "importer", "dev")
	l.Info().Msg("up")

	if json.Valid(buf.Bytes()) {
		t.Fatalf("dev mode must use the console writer, got JSON: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "importer") {
		t.Fatalf("service missing from console output: %s", buf.String())
	}
}
