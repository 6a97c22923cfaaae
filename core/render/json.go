// JSON and YAML renderers.
// Both emit the table as {"redirects": [...]} so the output can be merged
// into a host configuration that keeps its routing rules under that key.
package render

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/assetpipe/core"
)

// tableDoc is the document shape shared by the structured renderers.
type tableDoc struct {
	Redirects []core.RedirectRule `json:"redirects" yaml:"redirects"`
}

// JSONRenderer produces the routing table as JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the rules as indented JSON.
func (r *JSONRenderer) Render(rules []core.RedirectRule) ([]byte, error) {
	data, err := json.MarshalIndent(newTableDoc(rules), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// FileName returns the file name for JSON output.
func (r *JSONRenderer) FileName() string {
	return "redirects.json"
}

// YAMLRenderer produces the routing table as YAML.
type YAMLRenderer struct{}

// NewYAMLRenderer creates a YAMLRenderer.
func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

// Render marshals the rules as YAML.
func (r *YAMLRenderer) Render(rules []core.RedirectRule) ([]byte, error) {
	data, err := yaml.Marshal(newTableDoc(rules))
	if err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return data, nil
}

// FileName returns the file name for YAML output.
func (r *YAMLRenderer) FileName() string {
	return "redirects.yaml"
}

func newTableDoc(rules []core.RedirectRule) tableDoc {
	if rules == nil {
		rules = []core.RedirectRule{}
	}
	return tableDoc{Redirects: rules}
}
