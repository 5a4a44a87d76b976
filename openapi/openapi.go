// Package openapi embeds the OpenAPI document of the activities API so the
// server can publish it at /openapi.yaml.
package openapi

import (
	_ "embed"
	"net/http"
)

// Document is the raw openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var Document []byte

// Handler serves Document as YAML.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(Document)
}
