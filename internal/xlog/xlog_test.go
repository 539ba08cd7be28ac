package xlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestLogger_DropsBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, Warn)
	lg.Info("should not appear")
	lg.Warn("should appear")
	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("expected Info line to be dropped, got %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("expected Warn line present, got %q", out)
	}
}

func TestLogger_WithTraceID(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, Debug)
	id := uuid.New()
	traced := lg.With(id)
	traced.Info("render pass started")
	if !strings.Contains(buf.String(), id.String()) {
		t.Fatalf("expected trace id %s in output, got %q", id, buf.String())
	}
}

func TestLogger_WithDoesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, Debug)
	_ = lg.With(uuid.New())
	lg.Info("untouched")
	if strings.Count(buf.String(), "] [") != 0 {
		t.Fatalf("expected no trace-id segment on original logger, got %q", buf.String())
	}
}
