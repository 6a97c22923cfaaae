// Package fetch implements the Fetcher interface.
// Documents come from the publish directory on local disk.
package fetch

import (
	"context"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/assetpipe/core"
)

// defaultMaxSize bounds how much of a single document is read.
const defaultMaxSize = 50 * 1024 * 1024

// FileFetcher reads documents from the local file system.
type FileFetcher struct {
	maxSize int64
}

// New creates a FileFetcher with the default size limit.
func New() *FileFetcher {
	return &FileFetcher{maxSize: defaultMaxSize}
}

// Fetch reads the HTML document at path.
func (f *FileFetcher) Fetch(ctx context.Context, path string) (*core.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > f.maxSize {
		return nil, fmt.Errorf("%s is %d bytes, larger than the %d byte limit", path, info.Size(), f.maxSize)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &core.FetchResult{
		Path: path,
		HTML: string(body),
	}, nil
}
