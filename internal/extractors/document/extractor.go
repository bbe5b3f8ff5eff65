// Package document extracts raw text from uploaded files. Dispatch is by
// file extension: PDF, DOCX and XLSX use their format parsers, Markdown
// is rendered and stripped, everything else is read as plain text.
package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
	htmlnorm "github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/normalisers/html"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads uploaded files from the local filesystem.
type Extractor struct{}

// New creates the document extractor.
func New() *Extractor {
	return &Extractor{}
}

// Kind returns the origin kind this extractor handles.
func (e *Extractor) Kind() domain.OriginKind {
	return domain.OriginDocument
}

// Extract reads the file at location and pulls out its text. Unknown
// extensions are read as plain text rather than rejected, so unusual
// but readable uploads still ingest.
func (e *Extractor) Extract(ctx context.Context, location string) (*driven.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		text  string
		attrs map[string]string
		err   error
	)

	switch strings.ToLower(filepath.Ext(location)) {
	case ".pdf":
		text, attrs, err = extractPDF(location)
	case ".docx":
		text, err = extractDOCX(location)
	case ".xlsx":
		text, attrs, err = extractXLSX(location)
	case ".md", ".markdown":
		text, err = extractMarkdown(location)
	default:
		text, err = extractPlain(location)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, filepath.Base(location), err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyContent, filepath.Base(location))
	}

	return &driven.Extraction{
		Text:        text,
		DisplayName: displayName(location),
		Attributes:  attrs,
	}, nil
}

func extractPDF(location string) (string, map[string]string, error) {
	f, err := os.Open(location)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", nil, fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), map[string]string{"pages": strconv.Itoa(numPages)}, nil
}

func extractDOCX(location string) (string, error) {
	r, err := docx.ReadDocxFile(location)
	if err != nil {
		return "", err
	}
	defer r.Close()

	return r.Editable().GetContent(), nil
}

func extractXLSX(location string) (string, map[string]string, error) {
	f, err := excelize.OpenFile(location)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	var sb strings.Builder
	sheets := f.GetSheetList()
	for _, sheetName := range sheets {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return "", nil, fmt.Errorf("sheet %s: %w", sheetName, err)
		}
		sb.WriteString("Sheet: " + sheetName + "\n")
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteString("\n")
		}
	}

	return sb.String(), map[string]string{"sheets": strconv.Itoa(len(sheets))}, nil
}

// extractMarkdown renders the markdown to HTML and strips the markup,
// so headings and lists come out as plain lines.
func extractMarkdown(location string) (string, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(data, &buf); err != nil {
		return "", err
	}

	return htmlnorm.StripTags(buf.String()), nil
}

func extractPlain(location string) (string, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// displayName derives a readable name from the file name: extension
// stripped, separators turned into spaces.
func displayName(location string) string {
	name := filepath.Base(location)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
