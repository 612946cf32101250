// Package snapshot projects the article collection into the reduced
// JSON form shipped to disconnected clients: all metadata intact, the
// body truncated to a fixed preview. The export is deterministic for
// a given collection, so builds are reproducible.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	domart "github.com/rehci/encyclopedia/internal/domain/article"
)

// DefaultPreviewLength is the body prefix length kept in the snapshot.
const DefaultPreviewLength = 500

// Entry is one article in the snapshot file.
type Entry struct {
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Date           string   `json:"date,omitempty"`
	Author         string   `json:"author,omitempty"`
	Image          string   `json:"image,omitempty"`
	ContentPreview string   `json:"contentPreview"`
}

// Project maps the collection to snapshot entries in enumeration
// order, truncating each body to previewLen characters.
func Project(col *domart.Collection, previewLen int) []Entry {
	if previewLen <= 0 {
		previewLen = DefaultPreviewLength
	}
	entries := make([]Entry, 0, col.Len())
	for _, a := range col.Items() {
		preview := truncate(a.Body(), previewLen)
		entries = append(entries, Entry{
			Slug:           a.Slug(),
			Title:          a.Title(),
			Description:    a.Description(),
			Category:       a.Category(),
			Tags:           a.Tags(),
			Date:           a.Date(),
			Author:         a.Author(),
			Image:          a.Image(),
			ContentPreview: preview,
		})
	}
	return entries
}

// Encode serializes entries as the snapshot JSON array.
func Encode(entries []Entry) ([]byte, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a snapshot file back into a Collection, with each
// article's body holding the preview. This is the browser engine's
// input format.
func Decode(data []byte) (*domart.Collection, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	arts := make([]domart.Article, 0, len(entries))
	for _, e := range entries {
		arts = append(arts, domart.Reconstruct(
			e.Slug, e.Title, e.Description, e.Category,
			e.Author, e.Date, e.Image, e.Tags, e.ContentPreview,
		))
	}
	col, _ := domart.NewCollection(arts)
	return col, nil
}

// Write publishes the snapshot atomically: the bytes land in a
// temporary file next to the target, which is then renamed over it.
// A partial or interrupted export never leaves a torn file visible.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
