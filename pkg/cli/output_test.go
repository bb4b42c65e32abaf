package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}

	output, err := formatter.Format("test message")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := "test message\n"
	if string(output) != expected {
		t.Errorf("Format() = %q, want %q", string(output), expected)
	}
}

func TestTextFormatter_Table(t *testing.T) {
	table := NewTable("ID", "NAME")
	table.Append("ollama", "Ollama")
	table.Append("togetherai", "TogetherAI")

	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, table); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	expected := "ID          NAME\n" +
		"ollama      Ollama\n" +
		"togetherai  TogetherAI\n"
	if buf.String() != expected {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), expected)
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		indent bool
	}{
		{name: "simple string", data: "test"},
		{name: "map with indent", data: map[string]string{"key": "value"}, indent: true},
		{
			name: "struct",
			data: struct {
				Name  string `json:"name"`
				Value int    `json:"value"`
			}{Name: "test", Value: 42},
			indent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			var result any
			if err := json.Unmarshal(output, &result); err != nil {
				t.Errorf("Format() produced invalid JSON: %v", err)
			}
			if tt.indent != strings.Contains(string(output), "\n") {
				t.Errorf("indent = %v but output is %q", tt.indent, output)
			}
		})
	}
}

func TestJSONFormatter_Table(t *testing.T) {
	table := NewTable("ID", "Model")
	table.Append("claude", "claude-3-opus-20240229")

	output, err := (&JSONFormatter{}).Format(table)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := `[{"id":"claude","model":"claude-3-opus-20240229"}]`
	if string(output) != expected {
		t.Errorf("Format() = %s, want %s", output, expected)
	}
}

func TestYAMLFormatter(t *testing.T) {
	data := map[string]any{"activeProvider": "claude"}

	buf := &bytes.Buffer{}
	if err := (&YAMLFormatter{}).FormatTo(buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if decoded["activeProvider"] != "claude" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatYAML, "*cli.YAMLFormatter"},
		{"unknown", "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := NewFormatter(tt.format)
			if name := typeName(got); name != tt.want {
				t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, name, tt.want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TextFormatter:
		return "*cli.TextFormatter"
	case *JSONFormatter:
		return "*cli.JSONFormatter"
	case *YAMLFormatter:
		return "*cli.YAMLFormatter"
	default:
		return "unknown"
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}
