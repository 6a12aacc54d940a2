// Package chunking splits extracted document text into retrieval units.
// Paragraphs are the primary boundary; oversized paragraphs are re-split on
// sentence boundaries so chunks stay topically coherent instead of cutting
// mid-sentence at a fixed stride.
package chunking

import (
	"strings"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

type Splitter struct {
	MaxChunkChars     int
	MinParagraphChars int
	MinChunkChars     int
	MaxChunks         int
}

func NewSplitter(maxChunkChars, minParagraphChars, minChunkChars, maxChunks int) *Splitter {
	if maxChunkChars <= 0 {
		maxChunkChars = 400
	}
	if minParagraphChars <= 0 {
		minParagraphChars = 100
	}
	if minChunkChars <= 0 {
		minChunkChars = 50
	}
	if maxChunks <= 0 {
		maxChunks = 200
	}
	return &Splitter{
		MaxChunkChars:     maxChunkChars,
		MinParagraphChars: minParagraphChars,
		MinChunkChars:     minChunkChars,
		MaxChunks:         maxChunks,
	}
}

// Split breaks text into chunks tagged with source and ordinal. Paragraphs
// shorter than MinParagraphChars are dropped as boilerplate. Output is capped
// at MaxChunks; text past the cap is ignored.
func (s *Splitter) Split(text, source string) []domain.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []domain.Chunk
	add := func(piece string) bool {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			return true
		}
		out = append(out, domain.Chunk{Text: piece, Source: source, Ordinal: len(out)})
		return len(out) < s.MaxChunks
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if len([]rune(para)) <= s.MinParagraphChars {
			continue
		}
		if len([]rune(para)) <= s.MaxChunkChars {
			if !add(para) {
				return out
			}
			continue
		}
		for _, piece := range s.splitBySentence(para) {
			if !add(piece) {
				return out
			}
		}
	}
	return out
}

// splitBySentence packs consecutive sentences into buffers bounded by
// MaxChunkChars. Buffers shorter than MinChunkChars are dropped; a paragraph
// with no sentence boundaries at all is returned whole rather than lost.
func (s *Splitter) splitBySentence(para string) []string {
	sentences := strings.Split(para, ". ")
	if len(sentences) == 1 {
		return []string{para}
	}

	var pieces []string
	var buf strings.Builder
	flush := func() {
		piece := strings.TrimSpace(buf.String())
		if len([]rune(piece)) > s.MinChunkChars {
			pieces = append(pieces, piece)
		}
		buf.Reset()
	}

	for i, sent := range sentences {
		sent = strings.TrimSpace(sent)
		if sent == "" {
			continue
		}
		if i < len(sentences)-1 && !strings.HasSuffix(sent, ".") {
			sent += "."
		}
		if buf.Len() > 0 && len([]rune(buf.String()))+len([]rune(sent))+1 > s.MaxChunkChars {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(sent)
	}
	flush()
	return pieces
}
