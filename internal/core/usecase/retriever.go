package usecase

import (
	"context"
	"strings"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/ports"
)

const (
	defaultTopK     = 3
	defaultMinScore = 0.10

	// Chunks shorter than this are too thin to cite as evidence.
	minEvidenceChars = 30
	previewChars     = 300
)

// Retriever turns a query into a tagged retrieval outcome against the
// session corpus. Callers branch on Outcome, never on answer strings.
type Retriever struct {
	embedder ports.Embedder
	index    ports.SessionIndex
	topK     int
	minScore float32
}

func NewRetriever(embedder ports.Embedder, index ports.SessionIndex, topK int, minScore float32) *Retriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	return &Retriever{embedder: embedder, index: index, topK: topK, minScore: minScore}
}

func (r *Retriever) Retrieve(ctx context.Context, sessionID, query string) domain.Retrieval {
	if !r.index.HasCorpus(sessionID) {
		return domain.Retrieval{Outcome: domain.RetrievalNoCorpus}
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return domain.Retrieval{Outcome: domain.RetrievalError}
	}

	hits, hasCorpus := r.index.Search(sessionID, vector, r.topK)
	if !hasCorpus {
		return domain.Retrieval{Outcome: domain.RetrievalNoCorpus}
	}

	var kept []domain.ScoredChunk
	var previews []string
	for _, hit := range hits {
		if hit.Score < r.minScore {
			continue
		}
		text := strings.TrimSpace(hit.Text)
		if len([]rune(text)) < minEvidenceChars {
			continue
		}
		kept = append(kept, hit)
		previews = append(previews, preview(text, previewChars))
	}
	if len(kept) == 0 {
		return domain.Retrieval{Outcome: domain.RetrievalNoRelevant}
	}

	return domain.Retrieval{
		Outcome:  domain.RetrievalHit,
		Evidence: strings.Join(previews, " | "),
		Hits:     kept,
	}
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
