package ports

import (
	"context"
	"io"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

// QueryService is the inbound contract for answering a user query.
type QueryService interface {
	Submit(ctx context.Context, req domain.QueryRequest) (*domain.QueryResult, error)
}

// DocumentIngestor is the inbound contract for attaching a document corpus
// to a session. This is the only operation allowed to surface a user-visible
// failure.
type DocumentIngestor interface {
	Upload(ctx context.Context, sessionID, filename string, body io.Reader) (*domain.CorpusUpload, error)
}

// SessionService exposes conversation management for the HTTP boundary.
type SessionService interface {
	Create(ctx context.Context, userID, title string) (*domain.Session, error)
	ListTurns(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)
	Archive(ctx context.Context, sessionID string) error
}
