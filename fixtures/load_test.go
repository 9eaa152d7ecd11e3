package fixtures

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtureTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"jobs.json":        `{"title": "engineer", "remote": true}`,
		"companies.yaml":   "name: initech\nfounded: 1997\n",
		"news/feed.toml":   "headline = \"go release\"\n",
		"pages/intro.html": `<h1>Intro</h1><script>boom()</script>`,
		"notes.txt":        "plain note",
		"logo.bin":         "\x89PNG\r\n\x1a\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoadDirAll(t *testing.T) {
	reg := NewRegistry()
	dir := writeFixtureTree(t)

	n, err := reg.LoadDir(dir, "**/*")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	// Structured formats serve as JSON no matter how they were authored.
	fx, ok := reg.Get("companies.yaml")
	require.True(t, ok)
	assert.Equal(t, "application/json", fx.ContentType)
	assert.JSONEq(t, `{"name":"initech","founded":1997}`, string(fx.Body))

	fx, ok = reg.Get("news/feed.toml")
	require.True(t, ok)
	assert.JSONEq(t, `{"headline":"go release"}`, string(fx.Body))

	// Markup is sanitized on the way in.
	fx, ok = reg.Get("pages/intro.html")
	require.True(t, ok)
	assert.Contains(t, string(fx.Body), "<h1>Intro</h1>")
	assert.NotContains(t, string(fx.Body), "script")
}

func TestLoadDirPattern(t *testing.T) {
	reg := NewRegistry()
	dir := writeFixtureTree(t)

	n, err := reg.LoadDir(dir, "**/*.json")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok := reg.Get("jobs.json")
	assert.True(t, ok)
	_, ok = reg.Get("notes.txt")
	assert.False(t, ok)
}

func TestLoadDirBadPattern(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.LoadDir(t.TempDir(), "[")
	require.Error(t, err)
}

func TestLoadDirBadJSON(t *testing.T) {
	reg := NewRegistry()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644))

	_, err := reg.LoadDir(dir, "**/*.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestLoadArchive(t *testing.T) {
	reg := NewRegistry()

	archive := filepath.Join(t.TempDir(), "bundle.tar.gz")
	writeArchive(t, archive, map[string]string{
		"./feed.json":   `{"items": []}`,
		"raw/blob.bin":  "\x00\x01\x02",
		"../escape.txt": "must be skipped",
	})

	n, err := reg.LoadArchive(archive)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fx, ok := reg.Get("feed.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"items":[]}`, string(fx.Body))
	_, ok = reg.Get("raw/blob.bin")
	assert.True(t, ok)
	assert.Equal(t, 2, reg.Len())
}

func TestLoadArchiveMissingFile(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.LoadArchive(filepath.Join(t.TempDir(), "nope.tar.gz"))
	require.Error(t, err)
}

func writeArchive(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}
