package ports

import (
	"context"
	"io"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits raw document or page text into bounded retrieval units.
type Chunker interface {
	Split(text, source string) []domain.Chunk
}

// SessionIndex is the per-session exact nearest-neighbor store. Rebuild is
// the only mutator and replaces the whole corpus atomically. The index also
// owns the one-shot consult-documents flag because the flag must be read and
// cleared inside the same critical section as the corpus state it gates.
type SessionIndex interface {
	Rebuild(sessionID string, chunks []domain.Chunk, vectors [][]float32) error
	Search(sessionID string, queryVector []float32, k int) (hits []domain.ScoredChunk, hasCorpus bool)
	Chunks(sessionID string) ([]domain.Chunk, bool)
	HasCorpus(sessionID string) bool
	ConsumeConsultFlag(sessionID string) bool
	ClearConsultFlag(sessionID string)
}

// TextGenerator is the opaque generative-text capability. Any failure is
// recoverable: callers always hold a deterministic fallback.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// WebSearcher returns ranked snippets; an empty result set is a legitimate
// non-error outcome.
type WebSearcher interface {
	Search(ctx context.Context, query string, numResults int) ([]domain.WebResult, error)
}

// PageFetcher extracts readable content from a URL; failure (including too
// little content) is a legitimate outcome, not a pipeline abort.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.PageContent, error)
}

// TextExtractor turns an uploaded file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ObjectStorage stages uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ConversationStore persists sessions and their append-only turn log.
// Store errors never block an already-computed answer.
type ConversationStore interface {
	EnsureSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)
	CreateSession(ctx context.Context, userID, title string) (*domain.Session, error)
	AppendTurn(ctx context.Context, turn domain.Turn) error
	ListTurns(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)
	MarkCorpus(ctx context.Context, sessionID string, hasCorpus bool) error
	Archive(ctx context.Context, sessionID string) error
}

// EventPublisher emits fire-and-forget ingestion events.
type EventPublisher interface {
	PublishCorpusReplaced(ctx context.Context, sessionID string, chunkCount int) error
}
