// Package redirect synthesizes the routing rules that let the CDN fetch
// original assets from the origin through a disguised path, while browser
// requests for the real path are redirected to the CDN.
package redirect

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/assetpipe/core"
	"github.com/gaurav-prasanna/assetpipe/core/asseturl"
	"github.com/gaurav-prasanna/assetpipe/core/normalize"
	"github.com/gaurav-prasanna/assetpipe/core/report"
)

// FakePath returns the disguised path for a normalized asset directory.
func FakePath(assetDir string) string {
	return "/" + core.PublicAssetPath + "/" + assetDir
}

// BuildRules returns the disguise rule followed by the redirect rule for
// assetDir. The directory is normalized first.
func BuildRules(assetDir string, b *asseturl.Builder) ([2]core.RedirectRule, error) {
	dir := normalize.Path(assetDir)
	if err := validateDir(dir); err != nil {
		return [2]core.RedirectRule{}, err
	}

	fake := FakePath(dir)
	disguise := core.RedirectRule{
		From:   fake + "/*",
		To:     "/" + dir + "/:splat",
		Status: http.StatusOK,
		Force:  true,
	}
	redirect := core.RedirectRule{
		From:   "/" + dir + "/*",
		To:     b.OriginPrefix() + fake + "/:splat",
		Status: http.StatusFound,
		Force:  true,
	}

	if err := asseturl.ValidateAbsolute(redirect.To); err != nil {
		return [2]core.RedirectRule{}, fmt.Errorf("redirect destination for %q: %w", dir, err)
	}
	return [2]core.RedirectRule{disguise, redirect}, nil
}

func validateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("empty asset directory")
	}
	for _, seg := range strings.Split(dir, "/") {
		if seg == ".." || seg == "." {
			return fmt.Errorf("asset directory %q must not contain %q segments", dir, seg)
		}
	}
	return nil
}

// Generate builds the rule pair for every directory in order and prepends
// each pair to table, so the last directory's rules end up first. A
// directory whose rules cannot be built is logged and reported; the rest
// are still processed. Generation must stay sequential because table order
// is match order.
func Generate(dirs []string, b *asseturl.Builder, table *Table, logger zerolog.Logger) []report.PageErrors {
	var failed []report.PageErrors
	for _, d := range dirs {
		dir := normalize.Path(d)
		pair, err := BuildRules(dir, b)
		if err != nil {
			logger.Error().Err(err).Str("dir", dir).Msg("Error during rewrite")
			failed = append(failed, report.PageErrors{
				Page:   dir,
				Errors: []core.RewriteError{{Source: dir, Message: "Error in rewrite: " + err.Error()}},
			})
			continue
		}
		table.Prepend(pair)
		logger.Debug().Str("dir", dir).Str("from", pair[1].From).Str("to", pair[1].To).Msg("Added redirect rules")
	}
	return failed
}
