package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"sigs.k8s.io/yaml"
)

// OpenAPIHandler serves the API description as JSON.
type OpenAPIHandler struct {
	doc []byte
}

// NewOpenAPIHandler converts the embedded YAML document to JSON once, so that
// a malformed document is reported at startup rather than on first request.
func NewOpenAPIHandler(yamlDoc []byte) (*OpenAPIHandler, error) {
	doc, err := yaml.YAMLToJSON(yamlDoc)
	if err != nil {
		return nil, fmt.Errorf("converting OpenAPI document to JSON: %w", err)
	}
	return &OpenAPIHandler{doc: doc}, nil
}

// ServeHTTP writes the converted document.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.doc); err != nil {
		slog.Error("failed to write OpenAPI document", "error", err)
	}
}
