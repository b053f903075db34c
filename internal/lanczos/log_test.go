package lanczos

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger_PlanDebug(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	if _, err := NewPlan(100, 50, 10, 5); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"lanczos plan", "from=100x50", "to=10x5", "passes=horizontal,vertical"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestSetLogger_NilRestoresSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}
