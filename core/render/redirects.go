// Package render provides routing-table renderers.
// This file implements the plain-text _redirects format: one rule per line,
// "from to status", with "!" appended to the status of forced rules.
package render

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/gaurav-prasanna/assetpipe/core"
)

// RedirectsRenderer writes the _redirects text format.
type RedirectsRenderer struct{}

// NewRedirectsRenderer creates a RedirectsRenderer.
func NewRedirectsRenderer() *RedirectsRenderer {
	return &RedirectsRenderer{}
}

// Render writes one aligned line per rule, in table order.
func (r *RedirectsRenderer) Render(rules []core.RedirectRule) ([]byte, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, rule := range rules {
		status := fmt.Sprintf("%d", rule.Status)
		if rule.Force {
			status += "!"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", rule.From, rule.To, status)
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("formatting redirects: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns the name of the routing file the host reads.
func (r *RedirectsRenderer) FileName() string {
	return "_redirects"
}
