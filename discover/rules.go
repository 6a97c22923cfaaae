// Path matching rules for asset and document discovery.
// Configured asset directories may themselves be glob patterns; they are
// matched against slash-separated paths relative to the publish directory.
package discover

import (
	"fmt"
	"path"

	"github.com/gobwas/glob"

	"github.com/gaurav-prasanna/assetpipe/core/normalize"
)

// documentPattern matches every HTML document at any depth.
const documentPattern = "**.html"

// compileDir returns a matcher for every file below dir.
func compileDir(dir string) (glob.Glob, error) {
	dir = normalize.Path(dir)
	if dir == "" {
		return nil, fmt.Errorf("empty asset directory")
	}
	g, err := glob.Compile(dir+"/**", '/')
	if err != nil {
		return nil, fmt.Errorf("compiling pattern for %q: %w", dir, err)
	}
	return g, nil
}

// IsAssetFile reports whether rel looks like a file rather than a
// directory placeholder: it must carry an extension.
func IsAssetFile(rel string) bool {
	return path.Ext(rel) != ""
}
