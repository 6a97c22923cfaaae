package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"images/a.png",
		"images/icons/b.svg",
		"images/LICENSE",
		"myImages/c.jpg",
		"other/d.png",
		"index.html",
	)

	got, err := ListFiles(root, []string{"images", "/myImages/"})
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "images", "a.png"),
		filepath.Join(root, "images", "icons", "b.svg"),
		filepath.Join(root, "myImages", "c.jpg"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
}

func TestListFiles_OverlappingDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "images/a.png", "images/icons/b.svg")

	got, err := ListFiles(root, []string{"images/icons", "images"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, filepath.Join(root, "images", "icons", "b.svg"), got[0])
}

func TestListFiles_GlobDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "img-2023/a.png", "img-2024/b.png", "photos/c.png")

	got, err := ListFiles(root, []string{"img-*"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListFiles_Empty(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "images/a.png")

	got, err := ListFiles(root, []string{"invalid_images_path"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ListFiles(root, []string{"/"})
	assert.Error(t, err)

	_, err = ListFiles(filepath.Join(root, "missing"), []string{"images"})
	assert.Error(t, err)
}

func TestFindDocuments(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "index.html", "blog/post.html", "blog/deep/more.html", "style.css", "notes.htm")

	got, err := FindDocuments(context.Background(), root)
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "blog", "deep", "more.html"),
		filepath.Join(root, "blog", "post.html"),
		filepath.Join(root, "index.html"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected documents (-want +got):\n%s", diff)
	}
}

func TestFindDocuments_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "index.html")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindDocuments(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPathSet(t *testing.T) {
	s := NewPathSet()
	s.Add("a")
	s.Add("b")
	s.Add("a")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.All())
}
