package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mlviz/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("seeded") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("seeded") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("seeded") }, true},
		{"warn at warn", log.WarnLevel, func(l *log.Logger) { l.Warn("seeded") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := strings.Contains(buf.String(), "seeded"); got != tt.want {
				t.Errorf("logged = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Rendered 3 diagrams")

	out := buf.String()
	if !strings.Contains(out, "Rendered 3 diagrams (") || !strings.Contains(out, "s)") {
		t.Errorf("done() output = %q, want message with elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	installLogHooks(newLogger(&buf, log.DebugLevel))

	ctx := context.Background()
	observability.Dashboard().OnSelect(ctx, "rl", 3)
	observability.Dashboard().OnSelect(ctx, "", 0)
	observability.Dashboard().OnPointer(ctx, "rl-0", "down", true)
	observability.Dashboard().OnExport(ctx, "png", 0, errors.New("dot missing"))
	observability.Cache().OnCacheMiss(ctx, "panel")
	observability.HTTP().OnResponse(ctx, "GET", "/", 200, 0)
	observability.HTTP().OnResponse(ctx, "GET", "/api/diagrams", 503, 0)

	out := buf.String()
	for _, want := range []string{"method selected", "selection cleared", "rl-0", "export failed", "cache miss", "503"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "status=200") {
		t.Errorf("successful responses should not be logged:\n%s", out)
	}
}
