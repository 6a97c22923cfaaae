// Package report accumulates the non-fatal errors of a build and turns them
// into the single status summary shown when the build ends.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/assetpipe/core"
)

// PageErrors groups the errors produced for one page or asset directory.
type PageErrors struct {
	Page   string              `json:"page"`
	Errors []core.RewriteError `json:"errors"`
}

// Status is the end-of-build summary.
type Status struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Text    string `json:"text"`
}

// Report is an ordered accumulator of PageErrors. It is not safe for
// concurrent use; callers merge per-task results after their tasks finish.
type Report struct {
	pages []PageErrors
}

// New creates an empty Report.
func New() *Report {
	return &Report{}
}

// Add records errs against page. Nothing is recorded when errs is empty.
func (r *Report) Add(page string, errs ...core.RewriteError) {
	if len(errs) == 0 {
		return
	}
	r.pages = append(r.pages, PageErrors{Page: page, Errors: errs})
}

// Merge appends entries that carry at least one error.
func (r *Report) Merge(entries ...PageErrors) {
	for _, e := range entries {
		r.Add(e.Page, e.Errors...)
	}
}

// Pages returns a copy of the recorded entries in insertion order.
func (r *Report) Pages() []PageErrors {
	out := make([]PageErrors, len(r.pages))
	copy(out, r.pages)
	return out
}

// Len returns the number of pages with errors.
func (r *Report) Len() int {
	return len(r.pages)
}

// Status builds the summary shown at the end of the build.
func (r *Report) Status() Status {
	n := r.Len()
	if n == 0 {
		return Status{
			Title:   "[Imagekit] Done.",
			Summary: "Imagekit build plugin completed successfully",
			Text:    "No errors found during build",
		}
	}
	return Status{
		Title:   "[Imagekit] Done.",
		Summary: fmt.Sprintf("Imagekit build plugin completed with %d errors", n),
		Text:    fmt.Sprintf("The build process found %d errors. Check build logs for more information", n),
	}
}

// Log writes every recorded error at warn level, one event per reference.
func (r *Report) Log(logger zerolog.Logger) {
	for _, p := range r.pages {
		for _, e := range p.Errors {
			logger.Warn().Str("page", p.Page).Str("source", e.Source).Msg(e.Message)
		}
	}
}

// WriteJSON writes the entries and the status as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	doc := struct {
		Status Status       `json:"status"`
		Pages  []PageErrors `json:"pages"`
	}{
		Status: r.Status(),
		Pages:  r.Pages(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
