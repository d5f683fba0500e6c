package logbuf

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestBuffer_Eviction(t *testing.T) {
	b := New(3)
	for i := 0; i < 5; i++ {
		b.Write(Entry{Message: fmt.Sprintf("m%d", i), Level: "INFO", Time: time.Now()})
	}

	got := b.Query(time.Time{}, slog.LevelDebug, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Message != "m2" || got[2].Message != "m4" {
		t.Errorf("expected oldest-first window [m2..m4], got %v", got)
	}
}

func TestBuffer_QueryFilters(t *testing.T) {
	b := New(10)
	now := time.Now()
	b.Write(Entry{Message: "old", Level: "INFO", Time: now.Add(-time.Hour)})
	b.Write(Entry{Message: "debug", Level: "DEBUG", Time: now})
	b.Write(Entry{Message: "warn", Level: "WARN", Time: now})

	got := b.Query(now.Add(-time.Minute), slog.LevelInfo, 0)
	if len(got) != 1 || got[0].Message != "warn" {
		t.Errorf("expected only the recent WARN entry, got %v", got)
	}

	limited := b.Query(time.Time{}, slog.LevelDebug, 2)
	if len(limited) != 2 || limited[1].Message != "warn" {
		t.Errorf("limit must keep newest entries, got %v", limited)
	}
}

func TestHandler_CapturesAllLevels(t *testing.T) {
	buf := New(100)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewHandler(inner, buf))

	logger.Debug("a debug line", "method", "get_customer")
	logger.Error("an error line", "error", fmt.Errorf("boom"))

	got := buf.Query(time.Time{}, slog.LevelDebug, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 captured entries, got %d", len(got))
	}
	if got[0].Attrs["method"] != "get_customer" {
		t.Errorf("missing attr: %v", got[0].Attrs)
	}
	// Errors are flattened to strings so they survive JSON encoding.
	if got[1].Attrs["error"] != "boom" {
		t.Errorf("expected stringified error, got %v", got[1].Attrs["error"])
	}
}

func TestHandler_WithAttrs(t *testing.T) {
	buf := New(10)
	inner := slog.NewTextHandler(io.Discard, nil)
	logger := slog.New(NewHandler(inner, buf)).With("component", "rpc")

	logger.Info("hello")

	got := buf.Query(time.Time{}, slog.LevelDebug, 0)
	if len(got) != 1 || got[0].Attrs["component"] != "rpc" {
		t.Errorf("pre-bound attrs must be captured, got %v", got)
	}
}
