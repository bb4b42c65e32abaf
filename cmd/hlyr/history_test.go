package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	testhelpers "humanlayer/hlyr/internal/providers"
	"humanlayer/hlyr/pkg/cli"
)

// historyConfig returns an ollama configuration that journals to dir.
func historyConfig(host, dir, extra string) string {
	return ollamaConfig(host) + `history:
  enabled: true
  path: ` + filepath.Join(dir, "history.db") + "\n" + extra
}

// sessionID extracts the "Session <id>" line chat prints to stderr.
func sessionID(t *testing.T, stderr string) string {
	t.Helper()
	for _, line := range strings.Split(stderr, "\n") {
		if id, ok := strings.CutPrefix(line, "Session "); ok {
			return strings.TrimSpace(id)
		}
	}
	t.Fatalf("no session id in stderr %q", stderr)
	return ""
}

// recordSession runs a two-turn chat against a mock Ollama and returns the
// config path and session id.
func recordSession(t *testing.T, extra string) (string, string, *testhelpers.MockServer) {
	t.Helper()
	dir := isolate(t)
	server := testhelpers.NewMockServer()
	t.Cleanup(server.Close)
	server.SetResponse("/api/chat", testhelpers.MockResponse{
		Body: testhelpers.MockOllamaResponse("pong", "llama2"),
	})
	path := writeConfig(t, dir, historyConfig(server.URL(), dir, extra))

	_, stderr, err := execute(t, "ping\nsecond ping\n", "chat", "-c", path)
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	return path, sessionID(t, stderr), server
}

func TestHistoryListAndShow(t *testing.T) {
	path, id, _ := recordSession(t, "")

	out, _, err := execute(t, "", "history", "list", "-c", path)
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	for _, want := range []string{"Session", id, "Ollama", "success", "second ping"} {
		if !strings.Contains(out, want) {
			t.Errorf("history list output missing %q:\n%s", want, out)
		}
	}

	out, _, err = execute(t, "", "history", "list", "-c", path, "-o", "json")
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	var rows []map[string]string
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(rows) != 2 || rows[0]["prompt"] != "second ping" || rows[1]["prompt"] != "ping" {
		t.Errorf("expected newest turn first, got %v", rows)
	}

	out, _, err = execute(t, "", "history", "show", "-c", path, id)
	if err != nil {
		t.Fatalf("history show failed: %v", err)
	}
	want := "> ping\npong\n\n> second ping\npong\n\n"
	if out != want {
		t.Errorf("history show = %q, want %q", out, want)
	}
}

func TestHistoryListFilters(t *testing.T) {
	path, _, _ := recordSession(t, "")

	tests := []struct {
		name  string
		args  []string
		rows  int
		fails bool
	}{
		{name: "limit", args: []string{"-n", "1"}, rows: 1},
		{name: "provider id", args: []string{"--provider", "ollama"}, rows: 2},
		{name: "other provider", args: []string{"--provider", "claude"}, rows: 0},
		{name: "errors only", args: []string{"--status", "error"}, rows: 0},
		{name: "unknown session", args: []string{"--session", "missing"}, rows: 0},
		{name: "bad status", args: []string{"--status", "maybe"}, fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"history", "list", "-c", path, "-o", "json"}, tt.args...)
			out, _, err := execute(t, "", args...)
			if tt.fails {
				if cli.ExitCode(err) != cli.ExitConfigError {
					t.Fatalf("expected config error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("history list failed: %v", err)
			}
			if got := strings.Count(out, `"prompt"`); got != tt.rows {
				t.Errorf("rows = %d, want %d:\n%s", got, tt.rows, out)
			}
		})
	}
}

func TestHistoryShowUnknownSession(t *testing.T) {
	path, _, _ := recordSession(t, "")

	_, _, err := execute(t, "", "history", "show", "-c", path, "missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	if cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("exit code = %d, want %d", cli.ExitCode(err), cli.ExitFailure)
	}
}

func TestHistoryExportCSV(t *testing.T) {
	path, id, _ := recordSession(t, "")
	file := filepath.Join(filepath.Dir(path), "turns.csv")

	_, stderr, err := execute(t, "", "history", "export", "-c", path, "--format", "csv", "--file", file)
	if err != nil {
		t.Fatalf("history export failed: %v", err)
	}
	if !strings.Contains(stderr, "Exported 2 turns") {
		t.Errorf("unexpected stderr %q", stderr)
	}

	f, err := os.Open(file)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d records", len(records))
	}
	if !strings.Contains(strings.Join(records[1], ","), id) {
		t.Errorf("row missing session id: %v", records[1])
	}
	if !strings.Contains(strings.Join(records[1], ","), "ping") {
		t.Errorf("oldest turn should come first: %v", records[1])
	}
}

func TestHistoryExportJSONLToStdout(t *testing.T) {
	path, _, _ := recordSession(t, "")

	out, _, err := execute(t, "", "history", "export", "-c", path, "--format", "jsonl", "--session", "missing")
	if err != nil {
		t.Fatalf("history export failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty export, got %q", out)
	}

	_, _, err = execute(t, "", "history", "export", "-c", path, "--format", "xml")
	if cli.ExitCode(err) != cli.ExitConfigError {
		t.Errorf("expected config error for unknown format, got %v", err)
	}
}

func TestHistoryPrune(t *testing.T) {
	path, _, _ := recordSession(t, "  retention:\n    maxTurns: 1\n")

	out, _, err := execute(t, "", "history", "prune", "-c", path)
	if err != nil {
		t.Fatalf("history prune failed: %v", err)
	}
	if !strings.Contains(out, "Deleted 1 turns") {
		t.Errorf("unexpected output %q", out)
	}

	out, _, err = execute(t, "", "history", "list", "-c", path, "-o", "json")
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if strings.Count(out, `"prompt"`) != 1 || !strings.Contains(out, "second ping") {
		t.Errorf("expected only the newest turn to remain:\n%s", out)
	}
}

func TestHistoryPruneWithoutLimits(t *testing.T) {
	path, _, _ := recordSession(t, "")

	out, _, err := execute(t, "", "history", "prune", "-c", path)
	if err != nil {
		t.Fatalf("history prune failed: %v", err)
	}
	if !strings.Contains(out, "No retention limits") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestChatResumeSendsRecordedTurns(t *testing.T) {
	path, id, server := recordSession(t, "")

	_, stderr, err := execute(t, "", "chat", "-c", path, "--resume", id, "third")
	if err != nil {
		t.Fatalf("chat --resume failed: %v", err)
	}
	if got := sessionID(t, stderr); got != id {
		t.Errorf("resumed session id = %q, want %q", got, id)
	}

	req, _ := server.LastRequest()
	body := decodeOllamaRequest(t, req)
	var contents []string
	for _, m := range body.Messages {
		contents = append(contents, m.Role+":"+m.Content)
	}
	want := "user:ping assistant:pong user:second ping assistant:pong user:third"
	if got := strings.Join(contents, " "); got != want {
		t.Errorf("messages = %q, want %q", got, want)
	}

	out, _, err := execute(t, "", "history", "list", "-c", path, "--session", id, "-o", "json")
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if strings.Count(out, `"prompt"`) != 3 {
		t.Errorf("expected 3 turns in resumed session:\n%s", out)
	}
}

func TestChatResumeErrors(t *testing.T) {
	t.Run("history disabled", func(t *testing.T) {
		dir := isolate(t)
		path := writeConfig(t, dir, ollamaConfig("http://127.0.0.1:1"))

		_, _, err := execute(t, "", "chat", "-c", path, "--resume", "abc", "hi")
		if cli.ExitCode(err) != cli.ExitConfigError {
			t.Fatalf("expected config error, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		path, _, _ := recordSession(t, "")

		_, _, err := execute(t, "", "chat", "-c", path, "--resume", "missing", "hi")
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}

func TestChatNoHistory(t *testing.T) {
	path, _, _ := recordSession(t, "")

	_, stderr, err := execute(t, "", "chat", "-c", path, "--no-history", "unrecorded")
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if strings.Contains(stderr, "Session ") {
		t.Errorf("expected no session line, got %q", stderr)
	}

	out, _, err := execute(t, "", "history", "list", "-c", path, "-o", "json")
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if strings.Contains(out, "unrecorded") {
		t.Errorf("--no-history turn was recorded:\n%s", out)
	}
}
