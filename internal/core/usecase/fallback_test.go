package usecase

import (
	"strings"
	"testing"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

func TestComposeFallbackNeverEmpty(t *testing.T) {
	pipelines := []domain.Pipeline{
		domain.PipelineDocumentSummary,
		domain.PipelineWebsiteSummary,
		domain.PipelineRAGSearch,
		domain.PipelineWebOnly,
	}
	for _, p := range pipelines {
		if got := ComposeFallback("some unmatched query", p, domain.EvidenceBundle{}); strings.TrimSpace(got) == "" {
			t.Errorf("empty fallback for pipeline %q", p)
		}
	}
}

func TestComposeFallbackPrefersDocumentEvidence(t *testing.T) {
	bundle := domain.EvidenceBundle{DocumentContext: "The report covers quarterly revenue growth."}
	got := ComposeFallback("what does the report say", domain.PipelineRAGSearch, bundle)
	if !strings.Contains(got, "quarterly revenue growth") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "Based on your uploaded document") {
		t.Fatalf("got %q", got)
	}
}

func TestComposeFallbackUsesWebResults(t *testing.T) {
	bundle := domain.EvidenceBundle{WebResults: []domain.WebResult{
		{Title: "First", Description: "First snippet."},
		{Title: "Second", Description: "Second snippet."},
		{Title: "Third", Description: "Third snippet."},
		{Title: "Fourth", Description: "Fourth snippet."},
	}}
	got := ComposeFallback("anything", domain.PipelineWebOnly, bundle)
	if !strings.Contains(got, "First snippet.") {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(got, "Fourth snippet.") {
		t.Error("fallback should cap at three results")
	}
}

func TestComposeFallbackTopicNotes(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"explain scrum to me", "Scrum"},
		{"how does a startup find product market fit", "business model"},
		{"what is the lean approach", "build-measure-learn"},
		{"how does machine learning work", "patterns from data"},
		{"should I buy bitcoin", "ledgers"},
		{"is climate change accelerating", "greenhouse gas"},
		{"how do drone flight controllers work", "flight controllers"},
	}
	for _, tc := range cases {
		got := ComposeFallback(tc.query, domain.PipelineWebOnly, domain.EvidenceBundle{})
		if !strings.Contains(got, tc.want) {
			t.Errorf("ComposeFallback(%q) = %q, want mention of %q", tc.query, got, tc.want)
		}
	}
}

func TestComposeFallbackAvoidsSubstringTopicMatches(t *testing.T) {
	// "ai" must not fire inside words like "said".
	got := ComposeFallback("what was said about the meeting", domain.PipelineWebOnly, domain.EvidenceBundle{})
	if strings.Contains(got, "transformer") {
		t.Fatalf("substring topic match: %q", got)
	}
}

func TestExtractiveSummary(t *testing.T) {
	sentence := "This is a sufficiently long sentence that should qualify for the extract"
	text := strings.Repeat(sentence+". ", 10) + "short. tiny."
	got := extractiveSummary(text)
	if got == "" {
		t.Fatal("expected a non-empty extract")
	}
	if n := strings.Count(got, "."); n != 6 {
		t.Fatalf("expected 6 sentences, got %d", n)
	}
	if strings.Contains(got, "tiny") {
		t.Error("short sentences should be skipped")
	}
}

func TestExtractiveSummaryNoQualifyingSentences(t *testing.T) {
	if got := extractiveSummary("short. bits. only."); got != "" {
		t.Fatalf("got %q", got)
	}
}
