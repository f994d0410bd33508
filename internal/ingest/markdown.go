package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkdownReader handles .md and .markdown files. YAML front matter may
// carry `document_type` and `production_type` hints; the body is passed
// through with light cleanup (heading markers and emphasis stripped so the
// structure detector sees section headers, not syntax).
type MarkdownReader struct{}

func (m *MarkdownReader) CanHandle(path string) bool {
	return extHandled(path, ".md", ".markdown")
}

type frontMatter struct {
	DocumentType   string `yaml:"document_type"`
	ProductionType string `yaml:"production_type"`
}

func (m *MarkdownReader) Read(ctx context.Context, path string) (Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	content := normalizeNewlines(string(data))
	doc := Document{SourceFile: absPath}

	body, fm, err := splitFrontMatter(content)
	if err != nil {
		return Document{}, fmt.Errorf("parsing front matter in %s: %w", path, err)
	}
	if fm != nil {
		doc.DocumentType = strings.TrimSpace(fm.DocumentType)
		doc.ProductionType = strings.TrimSpace(fm.ProductionType)
	}

	doc.Text = stripMarkdownSyntax(body)
	return doc, nil
}

// splitFrontMatter separates a leading `---` YAML block from the body.
func splitFrontMatter(content string) (body string, fm *frontMatter, err error) {
	if !strings.HasPrefix(content, "---\n") {
		return content, nil, nil
	}
	rest := content[4:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return content, nil, nil
	}
	block := rest[:end]
	body = strings.TrimPrefix(rest[end+4:], "\n")

	var parsed frontMatter
	if err := yaml.Unmarshal([]byte(block), &parsed); err != nil {
		return "", nil, err
	}
	return body, &parsed, nil
}

// stripMarkdownSyntax removes the markers that would confuse line-based
// structure detection while keeping the text content line-for-line.
func stripMarkdownSyntax(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			lines[i] = strings.TrimSpace(strings.TrimLeft(trimmed, "# "))
			continue
		}
		trimmed = strings.TrimPrefix(trimmed, "- ")
		trimmed = strings.TrimPrefix(trimmed, "* ")
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		lines[i] = trimmed
	}
	return strings.Join(lines, "\n")
}
