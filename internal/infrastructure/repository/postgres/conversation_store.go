// Package postgres persists sessions and their append-only turn log.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

type ConversationStore struct {
	db *sql.DB
}

func NewConversationStore(db *sql.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *ConversationStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent api startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026080901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	has_corpus BOOLEAN NOT NULL DEFAULT FALSE,
	archived BOOLEAN NOT NULL DEFAULT FALSE,
	total_turns INTEGER NOT NULL DEFAULT 0,
	last_message_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);

CREATE TABLE IF NOT EXISTS turns (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	answer TEXT NOT NULL DEFAULT '',
	pipeline TEXT NOT NULL DEFAULT '',
	ordinal INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (session_id, ordinal)
);

CREATE INDEX IF NOT EXISTS idx_turns_session_ordinal ON turns(session_id, ordinal DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// EnsureSession returns the session, creating it on first contact.
func (s *ConversationStore) EnsureSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING
`, sessionID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("ensure session insert: %w", err)
	}
	return s.getSession(ctx, sessionID)
}

func (s *ConversationStore) CreateSession(ctx context.Context, userID, title string) (*domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, title, created_at)
VALUES ($1, $2, $3, $4)
`, sess.ID, sess.UserID, sess.Title, sess.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

func (s *ConversationStore) getSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, title, has_corpus, archived, total_turns, last_message_at, created_at
FROM sessions
WHERE id = $1
`, sessionID)

	var sess domain.Session
	var lastMessageAt sql.NullTime
	if err := row.Scan(
		&sess.ID,
		&sess.UserID,
		&sess.Title,
		&sess.HasCorpus,
		&sess.Archived,
		&sess.TotalTurns,
		&lastMessageAt,
		&sess.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrSessionNotFound, "get session", err)
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	if lastMessageAt.Valid {
		sess.LastMessageAt = lastMessageAt.Time
	}
	return &sess, nil
}

// AppendTurn writes one turn with a gapless per-session ordinal. The session
// row's counters are updated in the same transaction.
func (s *ConversationStore) AppendTurn(ctx context.Context, turn domain.Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx, `
SELECT COALESCE(MAX(ordinal), 0) + 1 FROM turns WHERE session_id = $1
`, turn.SessionID)
	if err := row.Scan(&turn.Ordinal); err != nil {
		return fmt.Errorf("next turn ordinal: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO turns (id, session_id, role, content, answer, pipeline, ordinal, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, turn.ID, turn.SessionID, turn.Role, turn.Content, turn.Answer, string(turn.Pipeline), turn.Ordinal, turn.CreatedAt); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE sessions SET total_turns = total_turns + 1, last_message_at = $2 WHERE id = $1
`, turn.SessionID, turn.CreatedAt); err != nil {
		return fmt.Errorf("update session counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append tx: %w", err)
	}
	return nil
}

// ListTurns returns the most recent turns in chronological order.
func (s *ConversationStore) ListTurns(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, role, content, answer, pipeline, ordinal, created_at
FROM turns
WHERE session_id = $1
ORDER BY ordinal DESC
LIMIT $2
`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Turn, 0, limit)
	for rows.Next() {
		var turn domain.Turn
		var pipeline string
		if err := rows.Scan(
			&turn.ID,
			&turn.SessionID,
			&turn.Role,
			&turn.Content,
			&turn.Answer,
			&pipeline,
			&turn.Ordinal,
			&turn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.Pipeline = domain.Pipeline(pipeline)
		out = append(out, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// Returned in descending order from SQL; reverse to keep chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *ConversationStore) MarkCorpus(ctx context.Context, sessionID string, hasCorpus bool) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE sessions SET has_corpus = $2 WHERE id = $1
`, sessionID, hasCorpus)
	if err != nil {
		return fmt.Errorf("mark corpus: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrSessionNotFound, "mark corpus", sql.ErrNoRows)
	}
	return nil
}

func (s *ConversationStore) Archive(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE sessions SET archived = TRUE WHERE id = $1
`, sessionID)
	if err != nil {
		return fmt.Errorf("archive session: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrSessionNotFound, "archive session", sql.ErrNoRows)
	}
	return nil
}
