package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/assetpipe/core"
)

const (
	testEndpoint = "https://ik.imagekit.io/demo"
	testHost     = "https://example.com"
	cdnPrefix    = testEndpoint + "/tr:f-auto/"
	originPrefix = cdnPrefix + testHost + "/"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head><link rel="preload" as="image" href="/images/a.png"></head>
<body>
<img src="/images/a.png">
<img src="https://other.test/x.png">
<picture><source srcset="images/b.jpg 1x, images/a.png 2x"><img src="images/b.jpg"></picture>
</body>
</html>`

const pageHTML = `<html><body><img src="../images/b.jpg" srcset="../images/b.jpg 480w"></body></html>`

// setupSite creates a publish directory with two assets and two documents.
func setupSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "images", "a.png"), "png")
	writeFile(t, filepath.Join(dir, "images", "b.jpg"), "jpg")
	writeFile(t, filepath.Join(dir, "index.html"), indexHTML)
	writeFile(t, filepath.Join(dir, "sub", "page.html"), pageHTML)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// setEnv isolates the test from platform variables set on the machine.
func setEnv(t *testing.T, host string) {
	t.Helper()
	t.Setenv("URL", host)
	t.Setenv("CONTEXT", "")
	t.Setenv("DEPLOY_PRIME_URL", "")
	t.Setenv("IMAGEKIT_URL_ENDPOINT", "")
	t.Setenv("PUBLISH_DIR", "")
	t.Setenv("ASSETPIPE_PUBLISH_DIR", "")
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--no-color"))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestBuild_EndToEnd(t *testing.T) {
	setEnv(t, testHost)
	dir := setupSite(t)
	writeFile(t, filepath.Join(dir, "_redirects"), "/old  /new  301\n")

	stdout, _, err := run(t, "build", "-d", dir, "--url-endpoint", testEndpoint+"/", "-j", "2")
	require.NoError(t, err)

	index := readFile(t, filepath.Join(dir, "index.html"))
	assert.Contains(t, index, `href="`+originPrefix+`images/a.png"`)
	assert.Contains(t, index, `src="`+originPrefix+`images/a.png"`)
	assert.Contains(t, index, `src="`+cdnPrefix+`https://other.test/x.png"`)
	assert.Contains(t, index, `srcset="`+originPrefix+`images/b.jpg 1x, `+originPrefix+`images/a.png 2x"`)
	assert.Contains(t, index, `src="`+originPrefix+`images/b.jpg"`)
	assert.NotContains(t, index, `src="/images/a.png"`)

	page := readFile(t, filepath.Join(dir, "sub", "page.html"))
	assert.Contains(t, page, `src="`+originPrefix+`images/b.jpg"`)
	assert.Contains(t, page, `srcset="`+originPrefix+`images/b.jpg 480w"`)

	redirects := readFile(t, filepath.Join(dir, "_redirects"))
	lines := strings.Split(strings.TrimSpace(redirects), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"/images/*", originPrefix + "imagekit-netlify-asset/images/:splat", "302!"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"/imagekit-netlify-asset/images/*", "/images/:splat", "200!"}, strings.Fields(lines[1]))
	assert.Equal(t, "/old  /new  301", lines[2])

	assert.Equal(t, "[Imagekit] Done.\nImagekit build plugin completed successfully\nNo errors found during build\n", stdout)
}

func TestBuild_MultipleDirsOrder(t *testing.T) {
	setEnv(t, testHost)
	dir := setupSite(t)
	writeFile(t, filepath.Join(dir, "myImages", "c.gif"), "gif")

	_, _, err := run(t, "build", "-d", dir, "--url-endpoint", testEndpoint, "--images-path", "images,myImages")
	require.NoError(t, err)

	var froms []string
	for _, line := range strings.Split(strings.TrimSpace(readFile(t, filepath.Join(dir, "_redirects"))), "\n") {
		froms = append(froms, strings.Fields(line)[0])
	}
	assert.Equal(t, []string{
		"/myImages/*",
		"/imagekit-netlify-asset/myImages/*",
		"/images/*",
		"/imagekit-netlify-asset/images/*",
	}, froms)
}

func TestBuild_HostUnknownIsFatal(t *testing.T) {
	setEnv(t, "")
	dir := setupSite(t)

	stdout, _, err := run(t, "build", "-d", dir, "--url-endpoint", testEndpoint)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrHostUnknown))
	assert.Equal(t, core.MsgHostUnknown, err.Error())

	assert.Empty(t, stdout)
	assert.Equal(t, indexHTML, readFile(t, filepath.Join(dir, "index.html")))
	assert.NoFileExists(t, filepath.Join(dir, "_redirects"))
}

func TestBuild_EndpointRequiredIsFatal(t *testing.T) {
	setEnv(t, testHost)
	dir := setupSite(t)

	_, _, err := run(t, "build", "-d", dir, "--url-endpoint", "  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEndpointRequired))
	assert.Equal(t, indexHTML, readFile(t, filepath.Join(dir, "index.html")))
	assert.NoFileExists(t, filepath.Join(dir, "_redirects"))
}

func TestBuild_InvalidEndpointIsFatal(t *testing.T) {
	setEnv(t, testHost)
	dir := setupSite(t)

	_, _, err := run(t, "build", "-d", dir, "--url-endpoint", "invalid url")
	require.Error(t, err)
	assert.Equal(t, "Invalid URL endpoint. URL Endpoint: invalid url", err.Error())
}

func TestBuild_EndpointFromEnvironment(t *testing.T) {
	setEnv(t, testHost)
	t.Setenv("IMAGEKIT_URL_ENDPOINT", testEndpoint)
	dir := setupSite(t)

	_, _, err := run(t, "build", "-d", dir, "--url-endpoint", "invalid url")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "index.html")), originPrefix+"images/a.png")
}

func TestRedirects_NoAssetsIsFatal(t *testing.T) {
	setEnv(t, testHost)
	dir := setupSite(t)

	_, _, err := run(t, "redirects", "-d", dir, "--url-endpoint", testEndpoint, "--images-path", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoAssets))
	assert.Equal(t, core.MsgInvalidAssetPath, err.Error())
	assert.NoFileExists(t, filepath.Join(dir, "_redirects"))
}

func TestRedirects_JSONFormat(t *testing.T) {
	setEnv(t, testHost)
	dir := setupSite(t)

	_, _, err := run(t, "redirects", "-d", dir, "--url-endpoint", testEndpoint, "--redirects-format", "json")
	require.NoError(t, err)

	var doc struct {
		Redirects []core.RedirectRule `json:"redirects"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "redirects.json"))), &doc))
	require.Len(t, doc.Redirects, 2)
	assert.Equal(t, 302, doc.Redirects[0].Status)
	assert.Equal(t, 200, doc.Redirects[1].Status)

	assert.Equal(t, indexHTML, readFile(t, filepath.Join(dir, "index.html")))
}

func TestRewrite_ErrorsReported(t *testing.T) {
	setEnv(t, testHost)
	dir := setupSite(t)
	writeFile(t, filepath.Join(dir, "broken.html"), `<html><body><img src="bad%zz.png"><img src="images/a.png"></body></html>`)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	_, _, err := run(t, "rewrite", "-d", dir, "--url-endpoint", testEndpoint, "--report", reportPath)
	require.NoError(t, err)

	broken := readFile(t, filepath.Join(dir, "broken.html"))
	assert.Contains(t, broken, `src="bad%zz.png"`)
	assert.Contains(t, broken, originPrefix+"images/a.png")

	var rep struct {
		Status struct {
			Summary string `json:"summary"`
		} `json:"status"`
		Pages []struct {
			Page   string              `json:"page"`
			Errors []core.RewriteError `json:"errors"`
		} `json:"pages"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, reportPath)), &rep))
	require.Len(t, rep.Pages, 1)
	assert.Equal(t, filepath.Join(dir, "broken.html"), rep.Pages[0].Page)
	require.Len(t, rep.Pages[0].Errors, 1)
	assert.Equal(t, "bad%zz.png", rep.Pages[0].Errors[0].Source)
	assert.Equal(t, "Imagekit build plugin completed with 1 errors", rep.Status.Summary)

	assert.NoFileExists(t, filepath.Join(dir, "_redirects"))
}

func TestBuild_StatusCountsPagesWithErrors(t *testing.T) {
	setEnv(t, testHost)
	dir := setupSite(t)
	writeFile(t, filepath.Join(dir, "broken.html"), `<img src="bad%zz.png"><img src="also%zz.png">`)

	stdout, _, err := run(t, "build", "-d", dir, "--url-endpoint", testEndpoint)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imagekit build plugin completed with 1 errors")
	assert.Contains(t, stdout, "The build process found 1 errors. Check build logs for more information")
}

func TestBuild_DryRunWritesNothing(t *testing.T) {
	setEnv(t, testHost)
	dir := setupSite(t)

	stdout, _, err := run(t, "build", "-d", dir, "--url-endpoint", testEndpoint, "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, indexHTML, readFile(t, filepath.Join(dir, "index.html")))
	assert.Equal(t, pageHTML, readFile(t, filepath.Join(dir, "sub", "page.html")))
	assert.NoFileExists(t, filepath.Join(dir, "_redirects"))
	assert.Contains(t, stdout, "completed successfully")
}

func TestRewrite_NoDocuments(t *testing.T) {
	setEnv(t, testHost)
	dir := t.TempDir()

	_, _, err := run(t, "rewrite", "-d", dir, "--url-endpoint", testEndpoint)
	assert.NoError(t, err)
}

func TestConfigCommand(t *testing.T) {
	setEnv(t, testHost)
	dir := t.TempDir()

	stdout, _, err := run(t, "config", "-d", dir, "--url-endpoint", testEndpoint, "--resolve")
	require.NoError(t, err)
	assert.Contains(t, stdout, "url_endpoint: "+testEndpoint)
	assert.Contains(t, stdout, "# resolved host: "+testHost)
	assert.Contains(t, stdout, "# resolved url endpoint: "+testEndpoint)
	assert.Contains(t, stdout, "# asset directories: [images]")
}

func TestConfigCommand_InvalidFormat(t *testing.T) {
	setEnv(t, testHost)

	_, _, err := run(t, "config", "--redirects-format", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RedirectsFormat")
}
