// Package extract implements core.DocumentParser on top of goquery.
// It exposes the image-bearing elements of a page:
//  1. <img> elements
//  2. <link rel="preload" as="image"> resource hints
//  3. <source srcset> elements nested in <picture>
//
// and serializes the mutated tree back with golang.org/x/net/html.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/assetpipe/core"
)

// Selectors are compiled once; goquery accepts them as Matchers.
var (
	imageSelector   = cascadia.MustCompile("img")
	preloadSelector = cascadia.MustCompile(`link[rel~="preload"][as="image"]`)
	sourceSelector  = cascadia.MustCompile("picture source[srcset]")
)

// HTMLParser parses documents with goquery.
type HTMLParser struct{}

// New creates an HTMLParser.
func New() *HTMLParser {
	return &HTMLParser{}
}

// Parse builds a mutable document from raw HTML.
func (p *HTMLParser) Parse(raw string) (core.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Document wraps a goquery document.
type Document struct {
	doc *goquery.Document
}

// Images returns every <img> in document order.
func (d *Document) Images() []core.Element {
	return collect(d.doc.FindMatcher(imageSelector))
}

// Preloads returns every image preload hint in document order.
func (d *Document) Preloads() []core.Element {
	return collect(d.doc.FindMatcher(preloadSelector))
}

// Sources returns every <picture> <source> that carries srcset.
func (d *Document) Sources() []core.Element {
	return collect(d.doc.FindMatcher(sourceSelector))
}

// Render serializes the whole document, doctype included.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("serializing HTML: %w", err)
		}
	}
	return buf.String(), nil
}

func collect(sel *goquery.Selection) []core.Element {
	elems := make([]core.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elems = append(elems, element{sel: s})
	})
	return elems
}

// element adapts a single-node selection to core.Element.
type element struct {
	sel *goquery.Selection
}

func (e element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e element) SetAttr(name, value string) {
	e.sel.SetAttr(name, value)
}
