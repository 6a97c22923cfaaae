// Package asseturl builds CDN URLs for image references found in published
// documents. Local references are re-rooted on the origin host so the CDN
// can fetch them; remote references are passed through behind the CDN prefix.
package asseturl

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/assetpipe/core"
	"github.com/gaurav-prasanna/assetpipe/core/normalize"
)

// IsRemote reports whether ref is an absolute or protocol-relative URL.
// Anything else is treated as a path inside the site tree.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http") || strings.HasPrefix(ref, "//")
}

// Builder computes CDN URLs for a fixed RewriteConfig.
type Builder struct {
	cfg core.RewriteConfig
}

// New creates a Builder. Trailing slashes on the endpoint and host are
// removed so that joins never produce "//".
func New(cfg core.RewriteConfig) *Builder {
	cfg.CDNEndpoint = normalize.TrimTrailingSlash(cfg.CDNEndpoint)
	cfg.OriginHost = normalize.TrimTrailingSlash(cfg.OriginHost)
	return &Builder{cfg: cfg}
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() core.RewriteConfig {
	return b.cfg
}

// Build returns the CDN URL for ref as it appears in a document located in
// docDir. No file is read; local references need not exist on disk.
func (b *Builder) Build(ref, docDir string) (string, error) {
	var result string
	if IsRemote(ref) {
		result = fmt.Sprintf("%s/%s/%s", b.cfg.CDNEndpoint, b.cfg.Transformation, ref)
	} else {
		rel, err := b.SitePath(ref, docDir)
		if err != nil {
			return "", err
		}
		result = b.OriginPrefix() + "/" + rel
	}

	if err := ValidateAbsolute(result); err != nil {
		return "", fmt.Errorf("building url for %q: %w", ref, err)
	}
	return result, nil
}

// SitePath resolves a local reference against docDir and returns its path
// relative to the site root, using forward slashes.
func (b *Builder) SitePath(ref, docDir string) (string, error) {
	ref = normalize.Path(ref)

	resolved, err := filepath.Abs(filepath.Join(docDir, filepath.FromSlash(ref)))
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", ref, err)
	}
	root, err := filepath.Abs(b.cfg.SiteRootDir)
	if err != nil {
		return "", fmt.Errorf("resolving site root: %w", err)
	}

	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return "", fmt.Errorf("relativizing %q: %w", ref, err)
	}
	rel = normalize.Separators(filepath.ToSlash(rel))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("reference %q resolves outside the site root", ref)
	}
	return rel, nil
}

// OriginPrefix returns "{cdn}/{transformation}/{origin}", the prefix every
// origin-backed CDN URL starts with.
func (b *Builder) OriginPrefix() string {
	return fmt.Sprintf("%s/%s/%s", b.cfg.CDNEndpoint, b.cfg.Transformation, b.cfg.OriginHost)
}

// ValidateAbsolute rejects strings that net/url cannot parse or that lack a
// scheme or host.
func ValidateAbsolute(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("not an absolute url: %s", raw)
	}
	return nil
}
