package pipeline

import (
	"errors"
	"os"
	"path/filepath"

	"collegeprep/markdown"
)

// Exporter writes plain-text file artifacts derived from a feature's
// current textual output. The content is the visible text, not markup.
type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// ExportMarkdown extracts the visible text of markdownText and writes it
// under the feature's filename. Returns the written path.
func (e *Exporter) ExportMarkdown(filename, markdownText string) (string, error) {
	if filename == "" {
		return "", errors.New("export filename is required")
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, filename)
	text := markdown.PlainText(markdownText)
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ExportRaw writes already-plain text verbatim (the resume builder exports
// the user's own text, which is not markdown).
func (e *Exporter) ExportRaw(filename, text string) (string, error) {
	if filename == "" {
		return "", errors.New("export filename is required")
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, filename)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
