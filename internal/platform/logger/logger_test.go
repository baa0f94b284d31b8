package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/lettersmith/newsletter-api/internal/platform/logger"
)

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithFormat(logger.FormatJSON),
		logger.WithOutput(&buf),
		logger.WithService("newsletter-api"),
	)
	log.Info("hello", "key", "value")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["key"] != "value" || rec["service"] != "newsletter-api" {
		t.Fatalf("record=%v", rec)
	}
}

func TestNew_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(slog.LevelWarn),
	)
	log.Info("quiet")
	log.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Fatalf("level filter not applied: %q", out)
	}
}

func TestParseHelpers(t *testing.T) {
	t.Parallel()

	if logger.ParseFormat("JSON") != logger.FormatJSON {
		t.Fatalf("ParseFormat(JSON)")
	}
	if logger.ParseFormat("anything") != logger.FormatText {
		t.Fatalf("ParseFormat default")
	}
	if logger.ParseLevel("debug") != slog.LevelDebug {
		t.Fatalf("ParseLevel(debug)")
	}
	if logger.ParseLevel("") != slog.LevelInfo {
		t.Fatalf("ParseLevel default")
	}
}
