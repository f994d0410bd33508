// Package ingest loads call-sheet documents from disk into the plain text
// the extraction engine consumes.
//
// Each supported format (plain text, Markdown, CSV/TSV) has its own reader
// implementing the Reader interface. The loader auto-detects formats by file
// extension. Readers preserve the source path and any document metadata they
// find (Markdown front matter can carry document and production type hints).
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Document is a loaded call sheet ready for extraction.
type Document struct {
	// Text is the normalized plain-text content handed to the engine.
	Text string

	// SourceFile is the absolute path the document came from.
	SourceFile string

	// DocumentType and ProductionType are optional hints found in the file
	// itself (front matter). Empty when the file carries none.
	DocumentType   string
	ProductionType string
}

// Reader handles a specific file format.
type Reader interface {
	// CanHandle reports whether this reader supports the given path.
	CanHandle(path string) bool

	// Read loads and normalizes the file.
	Read(ctx context.Context, path string) (Document, error)
}

// DefaultReaders returns the format readers in dispatch order. The plain
// text reader doubles as the fallback for unknown extensions.
func DefaultReaders() []Reader {
	return []Reader{
		&MarkdownReader{},
		&CSVReader{},
		&TextReader{},
	}
}

// Load reads one file with the first reader that can handle it.
func Load(ctx context.Context, path string) (Document, error) {
	for _, r := range DefaultReaders() {
		if r.CanHandle(path) {
			return r.Read(ctx, path)
		}
	}
	return Document{}, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
}

// sheetExtensions are the file types a directory scan picks up. Single-file
// Load accepts anything; a scan has to be pickier or it would slurp whatever
// else lives next to the sheets.
var sheetExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".tsv":      true,
}

// LoadDir reads every call-sheet file in dir, in lexical order. A file
// that fails to load is reported in errs and skipped; the batch never
// aborts. With recursive set, subdirectories are scanned too.
func LoadDir(ctx context.Context, dir string, recursive bool) (docs []Document, errs []error) {
	var paths []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if sheetExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
		return docs, errs
	}
	sort.Strings(paths)

	for _, path := range paths {
		doc, err := Load(ctx, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
