// Package rewrite points the image references of a document at the CDN.
//
// A document is processed in three passes over the elements exposed by
// core.Document: images (src and srcset), image preload hints whose href
// matches an image's original src, and <picture> sources. A reference that
// cannot be rewritten leaves its element untouched and is recorded as a
// core.RewriteError; it never stops the remaining elements.
package rewrite

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/assetpipe/core"
	"github.com/gaurav-prasanna/assetpipe/core/asseturl"
)

// Rewriter rewrites documents with a fixed parser and URL builder.
type Rewriter struct {
	parser  core.DocumentParser
	builder *asseturl.Builder
	logger  zerolog.Logger
}

// New creates a Rewriter.
func New(parser core.DocumentParser, builder *asseturl.Builder, logger zerolog.Logger) *Rewriter {
	return &Rewriter{parser: parser, builder: builder, logger: logger}
}

// pass holds the state of one document rewrite.
type pass struct {
	docDir string
	errors []core.RewriteError
	// seen maps an image's original src to its rewritten URL.
	seen map[string]string
}

// Rewrite rewrites html, which was read from documentPath. The returned
// error is non-nil only when the document cannot be parsed or serialized;
// per-reference failures are reported in RewriteResult.Errors.
func (r *Rewriter) Rewrite(html, documentPath string) (core.RewriteResult, error) {
	doc, err := r.parser.Parse(html)
	if err != nil {
		return core.RewriteResult{}, err
	}

	p := &pass{
		docDir: filepath.Dir(documentPath),
		seen:   make(map[string]string),
	}

	for _, img := range doc.Images() {
		r.rewriteImage(p, img)
	}
	for _, link := range doc.Preloads() {
		r.rewritePreload(p, link)
	}
	for _, src := range doc.Sources() {
		r.rewriteSource(p, src)
	}

	out, err := doc.Render()
	if err != nil {
		return core.RewriteResult{}, err
	}
	return core.RewriteResult{HTML: out, Errors: p.errors}, nil
}

// rewriteImage computes src and srcset first and commits both only when
// every URL could be built.
func (r *Rewriter) rewriteImage(p *pass, img core.Element) {
	src, ok := img.Attr("src")
	if !ok || src == "" {
		return
	}

	newSrc, err := r.builder.Build(src, p.docDir)
	if err != nil {
		r.fail(p, src, err)
		return
	}

	srcset, hasSrcset := img.Attr("srcset")
	var newSrcset string
	if hasSrcset && srcset != "" {
		newSrcset, err = r.rewriteSrcset(srcset, p.docDir)
		if err != nil {
			r.fail(p, src, err)
			return
		}
	}

	img.SetAttr("src", newSrc)
	if newSrcset != "" {
		img.SetAttr("srcset", newSrcset)
	}
	p.seen[src] = newSrc
}

// rewritePreload points a preload hint at the URL computed for the image
// it announces. Matching uses the image's original src.
func (r *Rewriter) rewritePreload(p *pass, link core.Element) {
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return
	}
	if newURL, found := p.seen[href]; found {
		link.SetAttr("href", newURL)
	}
}

// rewriteSource handles <picture> sources. A srcset without whitespace is a
// single URL and is rewritten as one reference, commas included; anything
// with descriptors goes through the srcset path.
func (r *Rewriter) rewriteSource(p *pass, src core.Element) {
	srcset, ok := src.Attr("srcset")
	if !ok || strings.TrimSpace(srcset) == "" {
		return
	}

	var (
		out string
		err error
	)
	if ref := strings.TrimSpace(srcset); isSingleURL(ref) {
		out, err = r.builder.Build(ref, p.docDir)
	} else {
		out, err = r.rewriteSrcset(srcset, p.docDir)
	}
	if err != nil {
		r.fail(p, srcset, err)
		return
	}
	src.SetAttr("srcset", out)
}

// rewriteSrcset rewrites the URL of every candidate in a srcset value and
// keeps descriptors verbatim. Candidates are rejoined with ", ".
func (r *Rewriter) rewriteSrcset(srcset, docDir string) (string, error) {
	entries := strings.Split(srcset, ",")
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			out = append(out, "")
			continue
		}

		newURL, err := r.builder.Build(fields[0], docDir)
		if err != nil {
			return "", fmt.Errorf("srcset candidate %q: %w", fields[0], err)
		}
		if descriptor := strings.Join(fields[1:], " "); descriptor != "" {
			newURL += " " + descriptor
		}
		out = append(out, newURL)
	}
	return strings.Join(out, ", "), nil
}

func (r *Rewriter) fail(p *pass, source string, err error) {
	r.logger.Error().Err(err).Str("source", source).Msg("Failed to rewrite image reference")
	p.errors = append(p.errors, core.RewriteError{Source: source, Message: err.Error()})
}

func isSingleURL(s string) bool {
	return !strings.ContainsAny(s, " \t\n\r\f")
}
