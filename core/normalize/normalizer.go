// Package normalize canonicalizes path strings so that references written
// as absolute, relative, Windows-style or double-slashed paths compare and
// join the same way.
package normalize

import (
	"regexp"
	"strings"
)

// extendedLengthPrefix is the Windows \\?\ prefix for long paths.
const extendedLengthPrefix = `\\?\`

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// Path returns raw with forward slashes only, repeated slashes collapsed and
// one leading and one trailing slash removed. Path(Path(x)) == Path(x).
func Path(raw string) string {
	p := Separators(raw)
	p = strings.TrimPrefix(p, "/")
	return strings.TrimSuffix(p, "/")
}

// Separators strips a Windows extended-length prefix, converts backslashes
// to forward slashes and collapses runs of slashes. Leading and trailing
// slashes are kept.
func Separators(raw string) string {
	p := strings.TrimPrefix(raw, extendedLengthPrefix)
	p = strings.ReplaceAll(p, `\`, "/")
	return repeatedSlashes.ReplaceAllString(p, "/")
}

// TrimTrailingSlash removes a single trailing "/" and then a single trailing
// "\" from s. It is meant for URLs, so nothing else is touched.
func TrimTrailingSlash(s string) string {
	s = strings.TrimSuffix(s, "/")
	return strings.TrimSuffix(s, `\`)
}
