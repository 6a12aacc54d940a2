package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/ports"
)

const minDocumentChars = 10

// IngestUsecase attaches a document corpus to a session. Each upload replaces
// the previous corpus wholesale and re-arms the one-shot consultation.
type IngestUsecase struct {
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	index     ports.SessionIndex
	store     ports.ConversationStore
	events    ports.EventPublisher
	log       *slog.Logger
}

func NewIngestUsecase(
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	index ports.SessionIndex,
	store ports.ConversationStore,
	events ports.EventPublisher,
	log *slog.Logger,
) *IngestUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &IngestUsecase{
		storage:   storage,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		store:     store,
		events:    events,
		log:       log,
	}
}

func (u *IngestUsecase) Upload(ctx context.Context, sessionID, filename string, body io.Reader) (*domain.CorpusUpload, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("missing session id"))
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("missing filename"))
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	// Keep the original bytes; extraction and chunking are reproducible
	// from them if the pipeline changes.
	storageKey := fmt.Sprintf("%s/%s-%s", sessionID, uuid.NewString(), filename)
	if err := u.storage.Save(ctx, storageKey, bytes.NewReader(raw)); err != nil {
		u.log.Warn("staging upload failed", "session_id", sessionID, "error", err)
	}

	text, err := u.extractor.Extract(ctx, filename, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minDocumentChars {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			fmt.Errorf("document yielded %d characters of text", len([]rune(text))))
	}

	chunks := u.chunker.Split(text, filename)
	if len(chunks) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			errors.New("document produced no usable chunks"))
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	vectors, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}

	if err := u.index.Rebuild(sessionID, chunks, vectors); err != nil {
		return nil, fmt.Errorf("rebuild session index: %w", err)
	}

	if err := u.store.MarkCorpus(ctx, sessionID, true); err != nil {
		u.log.Warn("mark corpus failed", "session_id", sessionID, "error", err)
	}
	if err := u.events.PublishCorpusReplaced(ctx, sessionID, len(chunks)); err != nil {
		u.log.Warn("publish corpus event failed", "session_id", sessionID, "error", err)
	}

	u.log.Info("corpus replaced",
		"session_id", sessionID,
		"filename", filename,
		"characters", len([]rune(text)),
		"chunks", len(chunks),
	)
	return &domain.CorpusUpload{
		SessionID:  sessionID,
		Filename:   filename,
		Characters: len([]rune(text)),
		ChunkCount: len(chunks),
	}, nil
}
