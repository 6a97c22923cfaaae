// Package discover locates the files a build works on inside the publish
// directory: image assets below the configured directories, and the HTML
// documents to rewrite.
package discover

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/gobwas/glob"
)

// ListFiles returns every file with an extension below baseDir/subpath for
// each subpath, in subpath order and without duplicates.
func ListFiles(baseDir string, subpaths []string) ([]string, error) {
	matchers := make([]glob.Glob, 0, len(subpaths))
	for _, sp := range subpaths {
		g, err := compileDir(sp)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, g)
	}

	files, err := walk(context.Background(), baseDir)
	if err != nil {
		return nil, err
	}

	set := NewPathSet()
	for _, g := range matchers {
		for _, rel := range files {
			if g.Match(rel) && IsAssetFile(rel) {
				set.Add(filepath.Join(baseDir, filepath.FromSlash(rel)))
			}
		}
	}
	return set.All(), nil
}

// FindDocuments returns every .html file below root.
func FindDocuments(ctx context.Context, root string) ([]string, error) {
	g := glob.MustCompile(documentPattern, '/')

	files, err := walk(ctx, root)
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, rel := range files {
		if g.Match(rel) {
			docs = append(docs, filepath.Join(root, filepath.FromSlash(rel)))
		}
	}
	return docs, nil
}

// walk returns the slash-separated paths of all regular files below root,
// relative to root, in lexical order.
func walk(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}
