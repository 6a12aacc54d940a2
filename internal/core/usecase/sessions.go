package usecase

import (
	"context"
	"strings"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/ports"
)

const defaultListLimit = 50

// SessionUsecase exposes conversation management to the HTTP boundary.
type SessionUsecase struct {
	store ports.ConversationStore
	index ports.SessionIndex
}

func NewSessionUsecase(store ports.ConversationStore, index ports.SessionIndex) *SessionUsecase {
	return &SessionUsecase{store: store, index: index}
}

func (u *SessionUsecase) Create(ctx context.Context, userID, title string) (*domain.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = "anonymous"
	}
	return u.store.CreateSession(ctx, userID, strings.TrimSpace(title))
}

func (u *SessionUsecase) ListTurns(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return u.store.ListTurns(ctx, sessionID, limit)
}

// Archive retires a session and discards its in-memory corpus.
func (u *SessionUsecase) Archive(ctx context.Context, sessionID string) error {
	if err := u.store.Archive(ctx, sessionID); err != nil {
		return err
	}
	type dropper interface{ Drop(sessionID string) }
	if d, ok := u.index.(dropper); ok {
		d.Drop(sessionID)
	}
	return nil
}
