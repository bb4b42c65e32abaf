package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"humanlayer/hlyr/pkg/history"
)

// Export formats.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// New returns the exporter for format.
func New(format string) (history.Exporter, error) {
	switch format {
	case FormatJSON:
		return &JSONExporter{Pretty: true}, nil
	case FormatJSONL:
		return &JSONLinesExporter{}, nil
	case FormatCSV:
		return &CSVExporter{IncludeHeader: true}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (valid: json, jsonl, csv)", format)
	}
}

// JSONExporter writes turns as one JSON array.
type JSONExporter struct {
	// Pretty enables indentation.
	Pretty bool
}

// Export writes turns as a JSON array, "[]" when empty.
func (e *JSONExporter) Export(ctx context.Context, turns []*history.Turn, w io.Writer) error {
	if turns == nil {
		turns = []*history.Turn{}
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(turns); err != nil {
		return history.NewExportError(FormatJSON, len(turns), err)
	}
	return nil
}

// JSONLinesExporter writes one JSON object per line.
type JSONLinesExporter struct{}

// Export writes turns as newline-delimited JSON.
func (e *JSONLinesExporter) Export(ctx context.Context, turns []*history.Turn, w io.Writer) error {
	enc := json.NewEncoder(w)
	for i, turn := range turns {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(turn); err != nil {
			return history.NewExportError(FormatJSONL, i, err)
		}
	}
	return nil
}

// CSVExporter writes turns as CSV.
type CSVExporter struct {
	// IncludeHeader writes a header row.
	IncludeHeader bool
}

var csvHeader = []string{
	"id", "session_id", "timestamp", "active_provider", "provider", "model",
	"stream", "prompt", "reply", "error", "latency_ms",
}

// Export writes turns as CSV rows.
func (e *CSVExporter) Export(ctx context.Context, turns []*history.Turn, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return history.NewExportError(FormatCSV, len(turns), err)
		}
	}

	for _, turn := range turns {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(row(turn)); err != nil {
			return history.NewExportError(FormatCSV, len(turns), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return history.NewExportError(FormatCSV, len(turns), err)
	}
	return nil
}

func row(turn *history.Turn) []string {
	timestamp := ""
	if !turn.Timestamp.IsZero() {
		timestamp = turn.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	return []string{
		turn.ID,
		turn.SessionID,
		timestamp,
		turn.ActiveProvider,
		turn.Provider,
		turn.Model,
		strconv.FormatBool(turn.Stream),
		turn.Prompt,
		turn.Reply,
		turn.Error,
		strconv.FormatInt(turn.Latency.Milliseconds(), 10),
	}
}
