package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

type queryFixture struct {
	store     *fakeStore
	index     *fakeIndex
	generator *fakeGenerator
	searcher  *fakeSearcher
	pages     *fakePages
	metrics   *captureMetrics
	usecase   *QueryUsecase
}

func newQueryFixture() *queryFixture {
	f := &queryFixture{
		store:     newFakeStore(),
		index:     newFakeIndex(),
		generator: &fakeGenerator{},
		searcher:  &fakeSearcher{},
		pages: &fakePages{page: &domain.PageContent{
			Title:   "Example Page",
			Content: "Readable page body with enough substance to summarize for the user.",
			Kind:    domain.PageKindWebsite,
		}},
		metrics: &captureMetrics{},
	}
	retriever := NewRetriever(&fakeEmbedder{}, f.index, 3, 0.10)
	f.usecase = NewQueryUsecase(f.store, f.index, retriever, f.generator, f.searcher, f.pages, f.metrics, nil, QueryOptions{})
	return f
}

func (f *queryFixture) loadCorpus(t *testing.T, sessionID string) {
	t.Helper()
	chunkText := strings.Repeat("substantial document chunk text ", 3)
	chunks := []domain.Chunk{{Text: chunkText, Source: "doc.txt"}}
	if err := f.index.Rebuild(sessionID, chunks, [][]float32{{1, 0}}); err != nil {
		t.Fatal(err)
	}
	f.index.hits[sessionID] = []domain.ScoredChunk{{Chunk: chunks[0], Score: 0.9}}
}

func TestSubmitRejectsEmptyQuery(t *testing.T) {
	f := newQueryFixture()
	_, err := f.usecase.Submit(context.Background(), domain.QueryRequest{Query: "   "})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSubmitGeneratesSessionID(t *testing.T) {
	f := newQueryFixture()
	result, err := f.usecase.Submit(context.Background(), domain.QueryRequest{Query: "what is kanban"})
	if err != nil {
		t.Fatal(err)
	}
	if result.SessionID == "" {
		t.Fatal("expected a generated session id")
	}
}

func TestSummaryIntentWithCorpusRunsDocumentSummary(t *testing.T) {
	f := newQueryFixture()
	f.loadCorpus(t, "sess")

	result, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "summarize the document",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Pipeline != domain.PipelineDocumentSummary {
		t.Fatalf("pipeline = %q", result.Pipeline)
	}
	if !strings.Contains(f.generator.lastPrompt(), "substantial document chunk") {
		t.Error("summary prompt should carry the corpus text")
	}
	// The summary spends the one-shot consultation.
	if f.index.ConsumeConsultFlag("sess") {
		t.Error("consult flag should be cleared by the summary")
	}
}

func TestSummaryIntentWithoutCorpusIsTerminal(t *testing.T) {
	f := newQueryFixture()
	result, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "summarize the document",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Pipeline != domain.PipelineDocumentSummary {
		t.Fatalf("pipeline = %q", result.Pipeline)
	}
	if !strings.Contains(result.Answer, "No document has been uploaded") {
		t.Fatalf("answer = %q", result.Answer)
	}
	// Terminal branch: no evidence gathering, no generation.
	if len(f.searcher.queries) != 0 {
		t.Errorf("web search ran %d times", len(f.searcher.queries))
	}
	if len(f.generator.prompts) != 0 {
		t.Errorf("generator ran %d times", len(f.generator.prompts))
	}
	if len(f.metrics.fallbacks) != 0 {
		t.Errorf("fallback recorded for a defined terminal answer")
	}
}

func TestURLQueryRunsWebsiteSummary(t *testing.T) {
	f := newQueryFixture()
	f.loadCorpus(t, "sess")

	result, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "what does https://example.com/page say",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Pipeline != domain.PipelineWebsiteSummary {
		t.Fatalf("pipeline = %q", result.Pipeline)
	}
	if !strings.Contains(f.generator.lastPrompt(), "Example Page") {
		t.Error("website prompt should carry the fetched page")
	}
	// URL handling must not consume the document consultation.
	if !f.index.ConsumeConsultFlag("sess") {
		t.Error("consult flag should survive a website query")
	}
}

func TestPageFetchFailureStillAnswers(t *testing.T) {
	f := newQueryFixture()
	f.pages.err = errors.New("connection refused")

	result, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "summarize https://unreachable.example.com",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Pipeline != domain.PipelineWebsiteSummary {
		t.Fatalf("pipeline = %q", result.Pipeline)
	}
	if !strings.Contains(result.Answer, "couldn't extract") {
		t.Fatalf("answer = %q", result.Answer)
	}
	if len(f.metrics.fallbacks) != 1 {
		t.Error("fetch failure should count as a fallback")
	}
}

func TestOneShotDocumentConsultation(t *testing.T) {
	f := newQueryFixture()
	f.loadCorpus(t, "sess")

	first, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "what challenges does the project face",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.Pipeline != domain.PipelineRAGSearch {
		t.Fatalf("first pipeline = %q", first.Pipeline)
	}
	if !strings.Contains(f.generator.lastPrompt(), "Document context:") {
		t.Error("first query should carry document evidence")
	}

	second, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "and what about the budget",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.Pipeline != domain.PipelineWebOnly {
		t.Fatalf("second pipeline = %q", second.Pipeline)
	}
	if strings.Contains(f.generator.lastPrompt(), "Document context:") {
		t.Error("second query must not consult the documents again")
	}
}

func TestRAGSearchSharpensWebQuery(t *testing.T) {
	f := newQueryFixture()
	f.loadCorpus(t, "sess")

	_, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "what challenges does the project face",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.searcher.queries) != 1 {
		t.Fatalf("expected one web search, got %d", len(f.searcher.queries))
	}
	if !strings.Contains(f.searcher.queries[0], "substantial document") {
		t.Errorf("web query should borrow document terms: %q", f.searcher.queries[0])
	}
}

func TestWebOnlyPipeline(t *testing.T) {
	f := newQueryFixture()
	f.searcher.results = []domain.WebResult{{Title: "Result", Description: "Snippet.", URL: "https://example.com"}}

	result, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "latest drone regulations",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Pipeline != domain.PipelineWebOnly {
		t.Fatalf("pipeline = %q", result.Pipeline)
	}
	if !strings.Contains(f.generator.lastPrompt(), "Web results:") {
		t.Error("prompt should carry web results")
	}
}

func TestGeneratorFailureAlwaysProducesAnswer(t *testing.T) {
	queries := []struct {
		name     string
		query    string
		corpus   bool
		pipeline domain.Pipeline
	}{
		{"document summary", "summarize the document", true, domain.PipelineDocumentSummary},
		{"website summary", "what is on https://example.com/page", false, domain.PipelineWebsiteSummary},
		{"rag search", "what challenges does the project face", true, domain.PipelineRAGSearch},
		{"web only", "what is lean startup", false, domain.PipelineWebOnly},
	}
	for _, tc := range queries {
		t.Run(tc.name, func(t *testing.T) {
			f := newQueryFixture()
			f.generator.err = errors.New("llm down")
			if tc.corpus {
				f.loadCorpus(t, "sess")
			}

			result, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
				Query:     tc.query,
				SessionID: "sess",
			})
			if err != nil {
				t.Fatal(err)
			}
			if result.Pipeline != tc.pipeline {
				t.Fatalf("pipeline = %q, want %q", result.Pipeline, tc.pipeline)
			}
			if strings.TrimSpace(result.Answer) == "" {
				t.Fatal("fallback answer must never be empty")
			}
			if len(f.metrics.fallbacks) != 1 || f.metrics.fallbacks[0] != tc.pipeline {
				t.Fatalf("fallback metrics = %v", f.metrics.fallbacks)
			}
		})
	}
}

func TestShortGenerationTriggersFallback(t *testing.T) {
	f := newQueryFixture()
	f.generator.answer = "ok."

	result, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "what is lean startup",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Answer == "ok." {
		t.Fatal("an answer below the viable minimum must not be returned verbatim")
	}
	if strings.TrimSpace(result.Answer) == "" {
		t.Fatal("fallback answer must never be empty")
	}
	if len(f.metrics.fallbacks) != 1 {
		t.Fatalf("fallback metrics = %v", f.metrics.fallbacks)
	}
}

func TestStoreOutageNeverBlocksAnswer(t *testing.T) {
	f := newQueryFixture()
	f.store.failAll = true

	result, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "what is kanban",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(result.Answer) == "" {
		t.Fatal("expected an answer despite the store outage")
	}
}

func TestDigestReachesPrompt(t *testing.T) {
	f := newQueryFixture()
	seedStoreTurns(t, f.store, "sess")

	_, err := f.usecase.Submit(context.Background(), domain.QueryRequest{
		Query:     "and how does that compare",
		SessionID: "sess",
	})
	if err != nil {
		t.Fatal(err)
	}
	prompt := f.generator.lastPrompt()
	if !strings.Contains(prompt, "Previous User Question: what is scrum") {
		t.Errorf("digest missing from prompt:\n%s", prompt)
	}
}

func seedStoreTurns(t *testing.T, store *fakeStore, sessionID string) {
	t.Helper()
	ctx := context.Background()
	if err := store.AppendTurn(ctx, domain.Turn{SessionID: sessionID, Role: domain.RoleUser, Content: "what is scrum"}); err != nil {
		t.Fatal(err)
	}
	if err := store.AppendTurn(ctx, domain.Turn{SessionID: sessionID, Role: domain.RoleAssistant, Content: "what is scrum", Answer: "Scrum is an agile framework."}); err != nil {
		t.Fatal(err)
	}
}
