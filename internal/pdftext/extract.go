// Package pdftext turns raw PDF bytes into best-effort plain text in reading
// order. Layout, tables and images are flattened to linear text; the loss of
// fidelity is accepted downstream.
package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Lllllllleong/libraryreportflow/internal/models"
)

// Extract returns the plain-text content of a PDF. It fails with a
// *models.ExtractionError if the bytes are not a parseable PDF or contain no
// extractable text. Pages that fail individually are skipped.
func Extract(data []byte) (string, error) {
	tempDir, err := os.MkdirTemp("", "report-extract-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	sourcePath := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(sourcePath, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	// Normalize the file before text extraction. This also rejects bytes
	// that are not a PDF at all.
	optimizedPath := filepath.Join(tempDir, "optimized.pdf")
	if err := optimizePDF(sourcePath, optimizedPath); err != nil {
		return "", &models.ExtractionError{Err: fmt.Errorf("failed to validate/optimize PDF: %w", err)}
	}

	file, reader, err := pdf.Open(optimizedPath)
	if err != nil {
		return "", &models.ExtractionError{Err: fmt.Errorf("failed to open PDF for text extraction: %w", err)}
	}
	defer file.Close()

	var textBuilder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	content := textBuilder.String()
	if strings.TrimSpace(content) == "" {
		return "", &models.ExtractionError{Err: fmt.Errorf("document contains no extractable text")}
	}
	return content, nil
}

// pageText extracts one page's text. ledongthuc/pdf panics on some malformed
// content streams, so the call is fenced.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during page text extraction: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

func optimizePDF(inPath, outPath string) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return api.OptimizeFile(inPath, outPath, cfg)
}
