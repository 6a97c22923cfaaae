package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/assetpipe/core"
)

var sampleRules = []core.RedirectRule{
	{From: "/images/*", To: "https://cdn.example/tr:f-auto/https://example.com/imagekit-netlify-asset/images/:splat", Status: 302, Force: true},
	{From: "/imagekit-netlify-asset/images/*", To: "/images/:splat", Status: 200, Force: true},
}

func TestRedirectsRenderer(t *testing.T) {
	r := NewRedirectsRenderer()
	data, err := r.Render(sampleRules)
	require.NoError(t, err)

	want := "" +
		"/images/*                         https://cdn.example/tr:f-auto/https://example.com/imagekit-netlify-asset/images/:splat  302!\n" +
		"/imagekit-netlify-asset/images/*  /images/:splat                                                                          200!\n"
	assert.Equal(t, want, string(data))
	assert.Equal(t, "_redirects", r.FileName())
}

func TestRedirectsRenderer_NotForced(t *testing.T) {
	data, err := NewRedirectsRenderer().Render([]core.RedirectRule{{From: "/a", To: "/b", Status: 301}})
	require.NoError(t, err)
	assert.Equal(t, "/a  /b  301\n", string(data))
}

func TestJSONRenderer(t *testing.T) {
	r := NewJSONRenderer()
	data, err := r.Render(sampleRules)
	require.NoError(t, err)

	var doc tableDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, sampleRules, doc.Redirects)
	assert.Contains(t, string(data), `"status": 302`)
	assert.Equal(t, "redirects.json", r.FileName())

	empty, err := r.Render(nil)
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"redirects": []`)
}

func TestYAMLRenderer(t *testing.T) {
	r := NewYAMLRenderer()
	data, err := r.Render(sampleRules)
	require.NoError(t, err)

	var doc tableDoc
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, sampleRules, doc.Redirects)
	assert.Contains(t, string(data), "force: true")
	assert.Equal(t, "redirects.yaml", r.FileName())
}
