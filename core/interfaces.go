// Package core defines the shared types and stage interfaces for assetpipe.
// Each stage of the pipeline is a small interface so it can be swapped out
// and tested in isolation.
package core

import "context"

// PublicAssetPath is the first segment of the disguised path the CDN uses
// to pull original assets back from the origin.
const PublicAssetPath = "imagekit-netlify-asset"

// DefaultTransformation asks the CDN for automatic format selection.
const DefaultTransformation = "tr:f-auto"

// RewriteConfig holds the values every URL computation needs.
type RewriteConfig struct {
	// CDNEndpoint is the absolute CDN URL, without trailing slash.
	CDNEndpoint string
	// Transformation is an opaque CDN directive such as "tr:f-auto".
	Transformation string
	// OriginHost is the absolute URL of the origin, without trailing slash.
	OriginHost string
	// SiteRootDir is the local directory that relative paths are measured from.
	SiteRootDir string
}

// RewriteError records a reference that could not be rewritten.
type RewriteError struct {
	Source  string `json:"source" yaml:"source"`
	Message string `json:"message" yaml:"message"`
}

// RewriteResult is the outcome of rewriting a single document.
type RewriteResult struct {
	HTML   string
	Errors []RewriteError
}

// RedirectRule is a single routing-table entry.
type RedirectRule struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Status int    `json:"status" yaml:"status"`
	Force  bool   `json:"force" yaml:"force"`
}

// FetchResult holds a document read from the publish directory.
type FetchResult struct {
	Path string
	HTML string
}

// Element is an HTML element whose attributes can be read and replaced.
type Element interface {
	Attr(name string) (string, bool)
	SetAttr(name, value string)
}

// Document is a parsed HTML document exposing the image-bearing elements
// in document order.
type Document interface {
	// Images returns every <img> element.
	Images() []Element
	// Preloads returns every <link rel="preload" as="image"> element.
	Preloads() []Element
	// Sources returns every <source> nested in a <picture> that carries srcset.
	Sources() []Element
	// Render serializes the (possibly mutated) document.
	Render() (string, error)
}

// DocumentParser turns raw HTML into a mutable Document.
type DocumentParser interface {
	Parse(html string) (Document, error)
}

// Fetcher reads a document from the publish directory.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (*FetchResult, error)
}

// Renderer serializes a routing table to a host-specific format.
type Renderer interface {
	Render(rules []RedirectRule) ([]byte, error)
	// FileName returns the file this renderer writes (e.g. "_redirects").
	FileName() string
}
