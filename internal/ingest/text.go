package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// TextReader handles .txt, .log, and any unrecognized extension. It is the
// fallback reader, so CanHandle always returns true; keep it last in the
// dispatch order.
type TextReader struct{}

func (t *TextReader) CanHandle(path string) bool { return true }

func (t *TextReader) Read(ctx context.Context, path string) (Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Text:       normalizeNewlines(string(data)),
		SourceFile: absPath,
	}, nil
}

// extHandled is shared by the non-fallback readers.
func extHandled(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
