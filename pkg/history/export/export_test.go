package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"humanlayer/hlyr/pkg/history"
)

func sampleTurns() []*history.Turn {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*history.Turn{
		{
			ID: "t1", SessionID: "s1", Timestamp: ts, ActiveProvider: "ollama",
			Provider: "Ollama", Model: "llama2", Prompt: "hi, there", Reply: "line one\nline two",
			Latency: 1500 * time.Millisecond,
		},
		{
			ID: "t2", SessionID: "s1", Timestamp: ts.Add(time.Minute), ActiveProvider: "ollama",
			Prompt: "again", Error: `provider "Ollama" error (status 500): boom`, Stream: true,
		},
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatJSONL, FormatCSV} {
		if _, err := New(format); err != nil {
			t.Errorf("New(%q) failed: %v", format, err)
		}
	}
	if _, err := New("xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{Pretty: true}).Export(context.Background(), sampleTurns(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded []*history.Turn
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(decoded))
	}
	if decoded[0].Latency != 1500*time.Millisecond {
		t.Errorf("Latency = %v, want 1.5s", decoded[0].Latency)
	}
	if !strings.Contains(buf.String(), `"latency_ms": 1500`) {
		t.Errorf("expected latency in milliseconds:\n%s", buf.String())
	}
}

func TestJSONExporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(context.Background(), nil, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected [], got %q", buf.String())
	}
}

func TestJSONLinesExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONLinesExporter{}).Export(context.Background(), sampleTurns(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines int
	for scanner.Scan() {
		var turn history.Turn
		if err := json.Unmarshal(scanner.Bytes(), &turn); err != nil {
			t.Fatalf("line %d is not JSON: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&CSVExporter{IncludeHeader: true}).Export(context.Background(), sampleTurns(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header %v", records[0])
	}

	first := records[1]
	if first[2] != "2026-03-01T12:00:00Z" {
		t.Errorf("timestamp = %q", first[2])
	}
	if first[7] != "hi, there" || first[8] != "line one\nline two" {
		t.Errorf("prompt/reply not preserved: %q %q", first[7], first[8])
	}
	if first[10] != "1500" {
		t.Errorf("latency_ms = %q", first[10])
	}
	if records[2][6] != "true" || records[2][9] == "" {
		t.Errorf("unexpected error row %v", records[2])
	}
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := (&CSVExporter{}).Export(ctx, sampleTurns(), &buf); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
