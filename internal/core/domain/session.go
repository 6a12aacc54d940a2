package domain

import "time"

type Session struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title,omitempty"`
	HasCorpus     bool      `json:"has_corpus"`
	Archived      bool      `json:"archived"`
	TotalTurns    int       `json:"total_turns"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Chunk is the unit of retrieval: a bounded span of source text.
type Chunk struct {
	Text    string `json:"text"`
	Source  string `json:"source"`
	Ordinal int    `json:"ordinal"`
}

type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Answer    string    `json:"answer,omitempty"`
	Pipeline  Pipeline  `json:"pipeline,omitempty"`
	Ordinal   int       `json:"ordinal"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CorpusUpload describes an accepted document ingestion.
type CorpusUpload struct {
	SessionID  string `json:"session_id"`
	Filename   string `json:"filename"`
	Characters int    `json:"characters"`
	ChunkCount int    `json:"chunk_count"`
}
