package chunking

import (
	"strings"
	"testing"
)

func TestSplitEmpty(t *testing.T) {
	s := NewSplitter(400, 100, 50, 200)
	if got := s.Split("", "doc.txt"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := s.Split("   \n\n  ", "doc.txt"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSplitDropsShortParagraphs(t *testing.T) {
	s := NewSplitter(400, 100, 50, 200)
	text := "too short\n\n" + strings.Repeat("real paragraph content ", 8)
	chunks := s.Split(text, "doc.txt")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if strings.Contains(chunks[0].Text, "too short") {
		t.Errorf("boilerplate paragraph survived: %q", chunks[0].Text)
	}
}

func TestSplitResplitsOversizedParagraph(t *testing.T) {
	s := NewSplitter(400, 100, 50, 200)

	sentence := "This sentence carries enough words to be a meaningful retrieval unit on its own"
	long := make([]string, 0, 16)
	for i := 0; i < 16; i++ {
		long = append(long, sentence)
	}

	para1 := strings.Repeat("first paragraph body ", 8)
	para2 := strings.Join(long, ". ") + "."
	para3 := strings.Repeat("third paragraph body ", 8)
	chunks := s.Split(para1+"\n\n"+para2+"\n\n"+para3, "doc.txt")

	if len(chunks) < 4 {
		t.Fatalf("expected oversized paragraph to produce multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Ordinal != i {
			t.Errorf("chunk %d has ordinal %d", i, c.Ordinal)
		}
		if c.Source != "doc.txt" {
			t.Errorf("chunk %d has source %q", i, c.Source)
		}
		if n := len([]rune(c.Text)); n > 400+len(sentence) {
			t.Errorf("chunk %d far exceeds the bound: %d chars", i, n)
		}
	}
	if !strings.HasPrefix(chunks[0].Text, "first paragraph") {
		t.Errorf("first chunk = %q", chunks[0].Text)
	}
	if !strings.HasPrefix(chunks[len(chunks)-1].Text, "third paragraph") {
		t.Errorf("last chunk = %q", chunks[len(chunks)-1].Text)
	}
}

func TestSplitSentencelessParagraphKeptWhole(t *testing.T) {
	s := NewSplitter(400, 100, 50, 200)
	para := strings.Repeat("nodelimiter ", 60) // well past the bound, no ". "
	chunks := s.Split(para, "doc.txt")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if len([]rune(chunks[0].Text)) <= 400 {
		t.Errorf("expected the whole oversized paragraph, got %d chars", len([]rune(chunks[0].Text)))
	}
}

func TestSplitCapsChunkCount(t *testing.T) {
	s := NewSplitter(400, 100, 50, 5)
	para := strings.Repeat("a paragraph that clears the minimum length filter easily enough to count here ", 2)
	text := strings.TrimSpace(strings.Repeat(para+"\n\n", 20))
	chunks := s.Split(text, "doc.txt")
	if len(chunks) != 5 {
		t.Fatalf("expected cap of 5, got %d", len(chunks))
	}
}

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, 0, 0, 0)
	if s.MaxChunkChars != 400 || s.MinParagraphChars != 100 || s.MinChunkChars != 50 || s.MaxChunks != 200 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}
