package reader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/leaksift/pkg/reader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "42.json",
		`{"text": "###### Leaked Card\nUS card **250$** each", "timestamp": "2023-11-02 14:30"}`)

	r := reader.New()
	doc, err := r.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "42", doc.ID)
	assert.Equal(t, "2023-11-02 14:30", doc.Timestamp)
	assert.Contains(t, doc.Text, "Leaked Card")
}

func TestLoadStripsURLs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "1.json",
		`{"text": "mirror at https://example.com/listing stays fresh", "timestamp": ""}`)

	doc, err := reader.New().Load(path)
	require.NoError(t, err)
	assert.NotContains(t, doc.Text, "https://")
}

func TestLoadStripsMarkup(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "2.json",
		`{"text": "<html><body><div>Fullz from Germany</div></body></html>", "timestamp": ""}`)

	doc, err := reader.New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Fullz from Germany", doc.Text)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "3.json", `{"text": not valid json`)

	_, err := reader.New().Load(path)
	assert.True(t, errors.Is(err, reader.ErrParse))
}

func TestLoadMissing(t *testing.T) {
	_, err := reader.New().Load("/nonexistent/9.json")
	assert.True(t, errors.Is(err, reader.ErrParse))
}

func TestLoadVictimFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "victim.json",
		`{"text": "", "timestamp": "", "domain_names": ["a.b.example.com", "example.com"],
		  "country": "IT", "installed": "2020-07-06", "updated": "2020-07-08",
		  "os": "Windows 10 Home", "price": 10.5}`)

	doc, err := reader.New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.b.example.com", "example.com"}, doc.Domains)
	assert.Equal(t, "IT", doc.Country)
	assert.Equal(t, "Windows 10 Home", doc.OS)
	assert.Equal(t, 10.5, doc.Price)
}

func TestWalkOrdered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{}`)
	writeFile(t, dir, "a.json", `{}`)
	writeFile(t, dir, "notes.txt", "ignored")

	var visited []string
	require.NoError(t, reader.New().Walk(dir, func(path string) {
		visited = append(visited, filepath.Base(path))
	}))
	assert.Equal(t, []string{"a.json", "b.json"}, visited)
}

func TestNumberedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dump", "19.json"), reader.NumberedPath("dump", 19))
}
