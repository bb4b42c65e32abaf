package main

import (
	"encoding/json"
	"strings"
	"testing"

	testhelpers "humanlayer/hlyr/internal/providers"
)

func tagsResponse() testhelpers.MockResponse {
	return testhelpers.MockResponse{
		Body: map[string]any{
			"models": []map[string]any{
				{
					"name":        "llama2:latest",
					"size":        3826793677,
					"modified_at": "2024-01-01T00:00:00Z",
					"details":     map[string]any{"parameter_size": "7B"},
				},
				{
					"name": "mistral:7b",
					"size": 4109865159,
				},
			},
		},
	}
}

func TestModelsList(t *testing.T) {
	dir := isolate(t)
	server := testhelpers.NewMockServer()
	defer server.Close()
	server.SetResponse("/api/tags", tagsResponse())
	path := writeConfig(t, dir, ollamaConfig(server.URL()))

	out, _, err := execute(t, "", "models", "list", "-c", path, "--output", "json")
	if err != nil {
		t.Fatalf("models list failed: %v", err)
	}

	var rows []map[string]string
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 models, got %d", len(rows))
	}
	if rows[0]["name"] != "llama2:latest" || rows[0]["size"] != "3.8 GB" || rows[0]["parameters"] != "7B" {
		t.Errorf("unexpected first row %v", rows[0])
	}
	if rows[0]["active"] != "*" || rows[1]["active"] != "" {
		t.Errorf("active marker wrong: %v", rows)
	}
	if rows[1]["modified"] != "" {
		t.Errorf("zero modification time should be empty, got %q", rows[1]["modified"])
	}
}

func TestModelsListHostFlag(t *testing.T) {
	isolate(t)
	server := testhelpers.NewMockServer()
	defer server.Close()
	server.SetResponse("/api/tags", tagsResponse())

	out, _, err := execute(t, "", "models", "list", "--host", server.URL())
	if err != nil {
		t.Fatalf("models list failed: %v", err)
	}
	if !strings.Contains(out, "mistral:7b") {
		t.Errorf("output missing model:\n%s", out)
	}
}

func TestModelsPull(t *testing.T) {
	dir := isolate(t)
	server := testhelpers.NewMockServer()
	defer server.Close()
	server.SetResponse("/api/pull", testhelpers.MockResponse{
		Body: map[string]any{"status": "success"},
	})
	path := writeConfig(t, dir, ollamaConfig(server.URL()))

	out, _, err := execute(t, "", "models", "pull", "-c", path, "qwen2.5:7b")
	if err != nil {
		t.Fatalf("models pull failed: %v", err)
	}
	if !strings.Contains(out, "Pulled qwen2.5:7b") {
		t.Errorf("unexpected output %q", out)
	}

	req, _ := server.LastRequest()
	var body struct {
		Model  string `json:"model"`
		Stream bool   `json:"stream"`
	}
	if err := req.JSON(&body); err != nil {
		t.Fatalf("failed to decode pull request: %v", err)
	}
	if body.Model != "qwen2.5:7b" || body.Stream {
		t.Errorf("unexpected pull request %+v", body)
	}
}

func TestModelsPullServerError(t *testing.T) {
	dir := isolate(t)
	server := testhelpers.NewMockServer()
	defer server.Close()
	server.SetResponse("/api/pull", testhelpers.MockServerError())
	path := writeConfig(t, dir, ollamaConfig(server.URL()))

	if _, _, err := execute(t, "", "models", "pull", "-c", path, "llama2"); err == nil {
		t.Fatal("expected an error")
	}
}
