package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		in      slog.Level
		verbose bool
		want    slog.Level
	}{
		{slog.LevelWarn, false, slog.LevelWarn},
		{slog.LevelError, false, slog.LevelError},
		{slog.LevelWarn, true, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := Level(tt.in, tt.verbose).Level(); got != tt.want {
			t.Errorf("Level(%v, %v) = %v, want %v", tt.in, tt.verbose, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	lv := Level(slog.LevelWarn, false)
	log := New(&buf, lv)

	log.Info("hidden")
	log.Warn("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "k=v") {
		t.Errorf("unexpected output: %q", out)
	}

	lv.Set(slog.LevelDebug)
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("LevelVar change not honored")
	}
}

func TestForRun(t *testing.T) {
	var buf bytes.Buffer
	id := NewRunID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewRunID() = %q is not a uuid: %v", id, err)
	}

	ForRun(New(&buf, Level(slog.LevelInfo, false)), id).Info("crawl finished")
	if !strings.Contains(buf.String(), "run="+id) {
		t.Errorf("record missing run attribute: %q", buf.String())
	}
}
