package render

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerDefaultsToSilent(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger should discard everything")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	path := filepath.Join(t.TempDir(), "out.ppm")
	if err := NewFramebuffer(2, 2).SavePPM(path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "wrote image") {
		t.Errorf("log output %q missing write event", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
