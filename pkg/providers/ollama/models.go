package ollama

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"humanlayer/hlyr/pkg/providers"
)

// Model is a locally available Ollama model.
type Model struct {
	Name       string       `json:"name"`
	Model      string       `json:"model,omitempty"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest,omitempty"`
	Details    ModelDetails `json:"details,omitempty"`
}

// ModelDetails describes a model's format and size class.
type ModelDetails struct {
	Format            string `json:"format,omitempty"`
	Family            string `json:"family,omitempty"`
	ParameterSize     string `json:"parameter_size,omitempty"`
	QuantizationLevel string `json:"quantization_level,omitempty"`
}

type listResponse struct {
	Models []Model `json:"models"`
}

type pullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// PullStatus is the final status of a non-streaming pull.
type PullStatus struct {
	Status string `json:"status"`
}

// ModelManager lists and downloads models on an Ollama server.
type ModelManager struct {
	http *providers.HTTPProvider
	host string
}

// NewModelManager creates a manager for host, or DefaultHost when empty.
func NewModelManager(host string) *ModelManager {
	if host == "" {
		host = DefaultHost
	}
	base := providers.NewHTTPProvider(Name)
	base.Bind(providers.ProviderConfig{BaseURL: host})

	return &ModelManager{
		http: base,
		host: strings.TrimRight(host, "/"),
	}
}

// ListModels returns the models available locally (GET /api/tags).
func (m *ModelManager) ListModels(ctx context.Context) ([]Model, error) {
	var resp listResponse
	if _, err := m.http.DoJSONRequest(ctx, http.MethodGet, m.host+"/api/tags", nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// DownloadModel pulls name and waits for the pull to finish (POST /api/pull
// with stream disabled).
func (m *ModelManager) DownloadModel(ctx context.Context, name string) error {
	var status PullStatus
	_, err := m.http.DoJSONRequest(ctx, http.MethodPost, m.host+"/api/pull",
		pullRequest{Model: name, Stream: false}, &status, nil)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "model pulled", "model", name, "status", status.Status)
	return nil
}

// UpdateModel re-pulls name, fetching any newer layers.
func (m *ModelManager) UpdateModel(ctx context.Context, name string) error {
	return m.DownloadModel(ctx, name)
}

// ModelNotFoundError reports a model that is not available on the server.
type ModelNotFoundError struct {
	Model string
}

func (e *ModelNotFoundError) Error() string {
	return "model " + e.Model + " is not available locally; pull it first"
}

// SameModel reports whether two model names refer to the same model. A name
// without a tag means the "latest" tag.
func SameModel(a, b string) bool {
	return withTag(a) == withTag(b)
}

func withTag(name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return name + ":latest"
}
