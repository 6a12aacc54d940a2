// Package extractor converts uploaded files into plain text for chunking.
// Format support is dispatch-by-extension; anything unrecognized is rejected
// before ingestion touches the session corpus.
package extractor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract dispatches on file extension. The reader is consumed fully.
func (e *Extractor) Extract(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return extractPlaintext(filename, r)
	case ".pdf":
		return extractPDF(filename, r)
	case ".xlsx":
		return extractXLSX(filename, r)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract",
			fmt.Errorf("no extractor for %q", filepath.Ext(filename)))
	}
}
