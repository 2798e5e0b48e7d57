// Package reader loads scraped leaked-asset records from disk. Loading is
// side-effect free; malformed files surface as errors the batch runner logs
// and skips.
package reader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xhad/leaksift/internal/models"
	"github.com/xhad/leaksift/internal/types"
)

var _ types.Reader = (*Reader)(nil)

// ErrParse marks a document that could not be decoded. The batch skips it.
var ErrParse = errors.New("document parse failure")

var urlRe = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

type ReaderConfig struct {
	// StripURLs removes http(s) URLs from the text before extraction.
	StripURLs bool
	// StripMarkup reduces texts that carry HTML to their visible text.
	StripMarkup bool
}

type Reader struct {
	config ReaderConfig
}

func NewWithConfig(config ReaderConfig) *Reader {
	return &Reader{config: config}
}

func New() *Reader {
	return NewWithConfig(ReaderConfig{StripURLs: true, StripMarkup: true})
}

// Load reads one JSON document. The document id is the file's base name
// without extension.
func (r *Reader) Load(path string) (models.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.RawDocument{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var doc models.RawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.RawDocument{}, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	doc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc.Text = r.cleanText(doc.Text)
	return doc, nil
}

// Walk visits every .json file under dir in lexical order and hands each
// path to fn.
func (r *Reader) Walk(dir string, fn func(path string)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read input directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	for _, path := range paths {
		fn(path)
	}
	return nil
}

// NumberedPath returns the path of document n inside a numbered dump
// directory (the account dataset is laid out as <n>.json).
func NumberedPath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("%d.json", n))
}

func (r *Reader) cleanText(text string) string {
	if r.config.StripMarkup && looksLikeHTML(text) {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}
	if r.config.StripURLs {
		text = urlRe.ReplaceAllString(text, "")
	}
	return text
}

// looksLikeHTML is a cheap guard so plain markdown-ish listings skip the
// goquery pass entirely.
func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<body") ||
		strings.Contains(lower, "<div") || strings.Contains(lower, "</p>")
}
