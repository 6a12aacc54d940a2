package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/intent"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/ports"
)

const (
	// Anything shorter than this counts as a failed generation and routes
	// to the fallback composer.
	minAnswerChars = 50

	noDocumentAnswer = "No document has been uploaded for this conversation yet."
)

// Metrics abstracts the counters the query path records. The zero
// implementation is NopMetrics.
type Metrics interface {
	RecordPipeline(pipeline domain.Pipeline)
	RecordRetrieval(outcome domain.RetrievalOutcome)
	RecordFallback(pipeline domain.Pipeline)
}

type NopMetrics struct{}

func (NopMetrics) RecordPipeline(domain.Pipeline)          {}
func (NopMetrics) RecordRetrieval(domain.RetrievalOutcome) {}
func (NopMetrics) RecordFallback(domain.Pipeline)          {}

type QueryOptions struct {
	HistoryMaxPairs int
	SearchResults   int
	SearchTimeout   time.Duration
	FetchTimeout    time.Duration
	GenerateTimeout time.Duration
	MaxAnswerTokens int
}

func (o QueryOptions) normalize() QueryOptions {
	out := o
	if out.HistoryMaxPairs <= 0 {
		out.HistoryMaxPairs = defaultMaxPairs
	}
	if out.SearchResults <= 0 {
		out.SearchResults = 5
	}
	if out.SearchTimeout <= 0 {
		out.SearchTimeout = 10 * time.Second
	}
	if out.FetchTimeout <= 0 {
		out.FetchTimeout = 15 * time.Second
	}
	if out.GenerateTimeout <= 0 {
		out.GenerateTimeout = 45 * time.Second
	}
	if out.MaxAnswerTokens <= 0 {
		out.MaxAnswerTokens = 1024
	}
	return out
}

// QueryUsecase routes each query through exactly one of the four response
// pipelines and always returns an answer: generation failures degrade to the
// deterministic fallback, never to an error.
type QueryUsecase struct {
	store     ports.ConversationStore
	index     ports.SessionIndex
	retriever *Retriever
	generator ports.TextGenerator
	searcher  ports.WebSearcher
	pages     ports.PageFetcher
	metrics   Metrics
	log       *slog.Logger
	opts      QueryOptions
}

func NewQueryUsecase(
	store ports.ConversationStore,
	index ports.SessionIndex,
	retriever *Retriever,
	generator ports.TextGenerator,
	searcher ports.WebSearcher,
	pages ports.PageFetcher,
	metrics Metrics,
	log *slog.Logger,
	opts QueryOptions,
) *QueryUsecase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &QueryUsecase{
		store:     store,
		index:     index,
		retriever: retriever,
		generator: generator,
		searcher:  searcher,
		pages:     pages,
		metrics:   metrics,
		log:       log,
		opts:      opts.normalize(),
	}
}

func (u *QueryUsecase) Submit(ctx context.Context, req domain.QueryRequest) (*domain.QueryResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit query", errors.New("empty query"))
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = "anonymous"
	}

	// Persistence is best-effort on the query path: a database outage must
	// not stop an answer that only needs the in-memory corpus and the LLM.
	if _, err := u.store.EnsureSession(ctx, sessionID, userID); err != nil {
		u.log.Warn("ensure session failed", "session_id", sessionID, "error", err)
	}

	digest := ""
	if turns, err := u.store.ListTurns(ctx, sessionID, u.opts.HistoryMaxPairs*2); err != nil {
		u.log.Warn("list turns failed", "session_id", sessionID, "error", err)
	} else {
		digest = BuildDigest(turns, u.opts.HistoryMaxPairs)
	}

	if err := u.store.AppendTurn(ctx, domain.Turn{
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   query,
	}); err != nil {
		u.log.Warn("append user turn failed", "session_id", sessionID, "error", err)
	}

	answer, pipeline, degraded := u.route(ctx, sessionID, query, digest)
	u.metrics.RecordPipeline(pipeline)
	if degraded {
		u.metrics.RecordFallback(pipeline)
	}

	if err := u.store.AppendTurn(ctx, domain.Turn{
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   query,
		Answer:    answer,
		Pipeline:  pipeline,
	}); err != nil {
		u.log.Warn("append assistant turn failed", "session_id", sessionID, "error", err)
	}

	return &domain.QueryResult{
		Answer:    answer,
		Pipeline:  pipeline,
		SessionID: sessionID,
	}, nil
}

// route picks the pipeline by strict priority: summary intent, then a URL
// in the query, then the one-shot document consultation, then web only.
// Summary intent is terminal either way: without a corpus it answers that no
// document exists instead of falling through to another branch. The reported
// pipeline is the chosen branch even when its execution degraded to the
// fallback.
func (u *QueryUsecase) route(ctx context.Context, sessionID, query, digest string) (string, domain.Pipeline, bool) {
	if intent.IsSummaryQuery(query) {
		if !u.index.HasCorpus(sessionID) {
			return noDocumentAnswer, domain.PipelineDocumentSummary, false
		}
		answer, degraded := u.documentSummary(ctx, sessionID, digest)
		return answer, domain.PipelineDocumentSummary, degraded
	}
	if url := intent.FirstURL(query); url != "" {
		answer, degraded := u.websiteSummary(ctx, query, url)
		return answer, domain.PipelineWebsiteSummary, degraded
	}
	if u.index.ConsumeConsultFlag(sessionID) {
		answer, degraded := u.ragSearch(ctx, sessionID, query, digest)
		return answer, domain.PipelineRAGSearch, degraded
	}
	answer, degraded := u.webOnly(ctx, query, digest)
	return answer, domain.PipelineWebOnly, degraded
}

func (u *QueryUsecase) documentSummary(ctx context.Context, sessionID, digest string) (string, bool) {
	// The summary consumes the corpus; the one-shot consultation is spent.
	u.index.ClearConsultFlag(sessionID)

	chunks, ok := u.index.Chunks(sessionID)
	if !ok || len(chunks) == 0 {
		return ComposeFallback("", domain.PipelineDocumentSummary, domain.EvidenceBundle{}), true
	}
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	text := strings.Join(texts, "\n\n")

	answer, err := u.generate(ctx, buildDocumentSummaryPrompt(text, digest))
	if err != nil {
		u.log.Warn("document summary generation failed", "session_id", sessionID, "error", err)
		if extract := extractiveSummary(text); extract != "" {
			return extract, true
		}
		return ComposeFallback("", domain.PipelineDocumentSummary, domain.EvidenceBundle{}), true
	}
	return answer, false
}

func (u *QueryUsecase) websiteSummary(ctx context.Context, query, url string) (string, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, u.opts.FetchTimeout)
	defer cancel()

	page, err := u.pages.Fetch(fetchCtx, url)
	if err != nil {
		u.log.Warn("page fetch failed", "url", url, "error", err)
		return fmt.Sprintf("I couldn't extract readable content from %s. The page may be unavailable or block automated access; please try another link or paste the relevant text.", url), true
	}

	answer, err := u.generate(ctx, buildWebsitePrompt(query, page))
	if err != nil {
		u.log.Warn("website summary generation failed", "url", url, "error", err)
		return websiteFallback(page), true
	}
	return answer, false
}

func (u *QueryUsecase) ragSearch(ctx context.Context, sessionID, query, digest string) (string, bool) {
	retrieval := u.retriever.Retrieve(ctx, sessionID, query)
	u.metrics.RecordRetrieval(retrieval.Outcome)

	bundle := domain.EvidenceBundle{Digest: digest}
	if retrieval.HasEvidence() {
		bundle.DocumentContext = retrieval.Evidence
	}
	bundle.WebResults = u.search(ctx, deriveSearchQuery(query, retrieval))

	answer, err := u.generate(ctx, buildSynthesisPrompt(query, bundle))
	if err != nil {
		u.log.Warn("rag synthesis failed", "session_id", sessionID, "error", err)
		return ComposeFallback(query, domain.PipelineRAGSearch, bundle), true
	}
	return answer, false
}

func (u *QueryUsecase) webOnly(ctx context.Context, query, digest string) (string, bool) {
	bundle := domain.EvidenceBundle{
		Digest:     digest,
		WebResults: u.search(ctx, query),
	}

	answer, err := u.generate(ctx, buildSynthesisPrompt(query, bundle))
	if err != nil {
		u.log.Warn("web-only synthesis failed", "error", err)
		return ComposeFallback(query, domain.PipelineWebOnly, bundle), true
	}
	return answer, false
}

func (u *QueryUsecase) search(ctx context.Context, query string) []domain.WebResult {
	searchCtx, cancel := context.WithTimeout(ctx, u.opts.SearchTimeout)
	defer cancel()

	results, err := u.searcher.Search(searchCtx, query, u.opts.SearchResults)
	if err != nil {
		u.log.Warn("web search failed", "error", err)
		return nil
	}
	return results
}

func (u *QueryUsecase) generate(ctx context.Context, prompt string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, u.opts.GenerateTimeout)
	defer cancel()

	answer, err := u.generator.Complete(genCtx, prompt, u.opts.MaxAnswerTokens)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if n := len([]rune(answer)); n < minAnswerChars {
		return "", fmt.Errorf("generator returned %d characters, below the viable minimum", n)
	}
	return answer, nil
}

// deriveSearchQuery sharpens the web search with leading words from the best
// document hit, so web evidence lands in the document's topic area.
func deriveSearchQuery(query string, retrieval domain.Retrieval) string {
	if !retrieval.HasEvidence() || len(retrieval.Hits) == 0 {
		return query
	}
	words := strings.Fields(retrieval.Hits[0].Text)
	if len(words) > 8 {
		words = words[:8]
	}
	return query + " " + strings.Join(words, " ")
}

func websiteFallback(page *domain.PageContent) string {
	var sb strings.Builder
	if page.Kind == domain.PageKindYouTube {
		sb.WriteString("Here is what I found about the video")
		if page.Title != "" {
			fmt.Fprintf(&sb, " %q", page.Title)
		}
		if page.Channel != "" {
			fmt.Fprintf(&sb, " by %s", page.Channel)
		}
		sb.WriteString(".")
		if page.Description != "" {
			sb.WriteString(" ")
			sb.WriteString(preview(page.Description, 400))
		}
		return sb.String()
	}

	sb.WriteString("Here is what I could extract")
	if page.Title != "" {
		fmt.Fprintf(&sb, " from %q", page.Title)
	}
	sb.WriteString(": ")
	sb.WriteString(preview(page.Content, 600))
	return sb.String()
}
