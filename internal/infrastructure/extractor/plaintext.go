package extractor

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

func extractPlaintext(filename string, r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract",
			fmt.Errorf("%s is not valid utf-8", filename))
	}
	return strings.TrimSpace(string(raw)), nil
}
