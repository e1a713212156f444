package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Info("scan finished", "ranges", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "scan finished" {
		t.Errorf("msg = %v, want scan finished", record["msg"])
	}
	if record["ranges"] != float64(3) {
		t.Errorf("ranges = %v, want 3", record["ranges"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: slog.LevelWarn, Format: "text", Writer: &buf})

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record surfaced below warn level: %q", buf.String())
	}
	log.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn record missing")
	}
}

func TestExtractContextValues(t *testing.T) {
	ctx := WithContextValue(context.Background(), QueryIDKey, "q-123")
	ctx = WithContextValue(ctx, IndexIDKey, int64(42))

	args := ExtractContextValues(ctx)
	want := []any{"query_id", "q-123", "index_id", int64(42)}
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d", len(args), len(want))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %v", i, args[i], want[i])
		}
	}
}
