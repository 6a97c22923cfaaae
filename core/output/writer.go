// Package output writes build results back into the publish directory.
// Rewritten documents replace their source file in place; the routing table
// is written next to them, ahead of any rules already present.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Writer writes into a publish directory.
type Writer struct {
	PublishDir string
	// DryRun turns every write into a no-op.
	DryRun bool
}

// New creates a Writer for publishDir, which must be an existing directory.
func New(publishDir string, dryRun bool) (*Writer, error) {
	info, err := os.Stat(publishDir)
	if err != nil {
		return nil, fmt.Errorf("publish directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("publish directory %s is not a directory", publishDir)
	}
	return &Writer{PublishDir: publishDir, DryRun: dryRun}, nil
}

// WriteDocument replaces the file at path with html, keeping its mode.
func (w *Writer) WriteDocument(path string, html string) error {
	if w.DryRun {
		return nil
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(path, []byte(html), mode); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

// WriteRedirects writes data to name inside the publish directory and
// returns the full path. With keepExisting, the previous content of the file
// is kept below data so the new rules are matched first.
func (w *Writer) WriteRedirects(name string, data []byte, keepExisting bool) (string, error) {
	path := filepath.Join(w.PublishDir, name)
	if w.DryRun {
		return path, nil
	}

	if keepExisting {
		existing, err := os.ReadFile(path)
		switch {
		case err == nil && len(existing) > 0:
			var buf bytes.Buffer
			buf.Write(data)
			if len(data) > 0 && data[len(data)-1] != '\n' {
				buf.WriteByte('\n')
			}
			buf.Write(existing)
			data = buf.Bytes()
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("reading existing %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}
