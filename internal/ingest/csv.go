package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSVReader handles .csv and .tsv files. Rows are re-serialized as
// tab-delimited lines, which the engine's tabular strategy maps by header.
type CSVReader struct{}

func (c *CSVReader) CanHandle(path string) bool {
	return extHandled(path, ".csv", ".tsv")
}

func (c *CSVReader) Read(ctx context.Context, path string) (Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Document{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if strings.ToLower(filepath.Ext(path)) == ".tsv" {
		reader.Comma = '\t'
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // production sheets have ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return Document{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	lines := make([]string, 0, len(records))
	for _, row := range records {
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
		}
		lines = append(lines, strings.Join(row, "\t"))
	}

	return Document{
		Text:       strings.Join(lines, "\n"),
		SourceFile: absPath,
	}, nil
}
