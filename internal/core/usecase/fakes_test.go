package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	turns    map[string][]domain.Turn
	failAll  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]*domain.Session),
		turns:    make(map[string][]domain.Turn),
	}
}

var errStoreDown = errors.New("store down")

func (s *fakeStore) EnsureSession(_ context.Context, sessionID, userID string) (*domain.Session, error) {
	if s.failAll {
		return nil, errStoreDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}
	sess := &domain.Session{ID: sessionID, UserID: userID}
	s.sessions[sessionID] = sess
	return sess, nil
}

func (s *fakeStore) CreateSession(_ context.Context, userID, title string) (*domain.Session, error) {
	if s.failAll {
		return nil, errStoreDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &domain.Session{ID: "generated", UserID: userID, Title: title}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *fakeStore) AppendTurn(_ context.Context, turn domain.Turn) error {
	if s.failAll {
		return errStoreDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	turn.Ordinal = len(s.turns[turn.SessionID]) + 1
	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], turn)
	return nil
}

func (s *fakeStore) ListTurns(_ context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	if s.failAll {
		return nil, errStoreDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.turns[sessionID]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *fakeStore) MarkCorpus(_ context.Context, sessionID string, hasCorpus bool) error {
	if s.failAll {
		return errStoreDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.HasCorpus = hasCorpus
	}
	return nil
}

func (s *fakeStore) Archive(_ context.Context, sessionID string) error {
	if s.failAll {
		return errStoreDown
	}
	return nil
}

type fakeIndex struct {
	mu      sync.Mutex
	chunks  map[string][]domain.Chunk
	hits    map[string][]domain.ScoredChunk
	consult map[string]bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		chunks:  make(map[string][]domain.Chunk),
		hits:    make(map[string][]domain.ScoredChunk),
		consult: make(map[string]bool),
	}
}

func (f *fakeIndex) Rebuild(sessionID string, chunks []domain.Chunk, vectors [][]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks[sessionID] = chunks
	f.consult[sessionID] = true
	return nil
}

func (f *fakeIndex) Search(sessionID string, _ []float32, k int) ([]domain.ScoredChunk, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.chunks[sessionID]) == 0 {
		return nil, false
	}
	hits := f.hits[sessionID]
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, true
}

func (f *fakeIndex) Chunks(sessionID string) ([]domain.Chunk, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chunks := f.chunks[sessionID]
	return chunks, len(chunks) > 0
}

func (f *fakeIndex) HasCorpus(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks[sessionID]) > 0
}

func (f *fakeIndex) ConsumeConsultFlag(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	armed := f.consult[sessionID]
	f.consult[sessionID] = false
	return armed
}

func (f *fakeIndex) ClearConsultFlag(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consult[sessionID] = false
}

func (f *fakeIndex) Drop(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.chunks, sessionID)
	delete(f.hits, sessionID)
	delete(f.consult, sessionID)
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0}, nil
}

type fakeGenerator struct {
	mu      sync.Mutex
	err     error
	answer  string
	prompts []string
}

func (f *fakeGenerator) Complete(_ context.Context, prompt string, _ int) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.answer == "" {
		return "generated answer with enough substance to clear the minimum viable length check", nil
	}
	return f.answer, nil
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeSearcher struct {
	mu      sync.Mutex
	err     error
	results []domain.WebResult
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]domain.WebResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakePages struct {
	err  error
	page *domain.PageContent
}

func (f *fakePages) Fetch(_ context.Context, url string) (*domain.PageContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := *f.page
	page.URL = url
	return &page, nil
}

type fakeExtractor struct {
	err  error
	text string
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

type fakeStorage struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	_, _ = io.Copy(io.Discard, data)
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	return nil
}

func (f *fakeStorage) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

type fakeChunker struct{}

func (fakeChunker) Split(text, source string) []domain.Chunk {
	var out []domain.Chunk
	for i, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		out = append(out, domain.Chunk{Text: para, Source: source, Ordinal: i})
	}
	return out
}

type fakeEvents struct {
	mu        sync.Mutex
	published int
	err       error
}

func (f *fakeEvents) PublishCorpusReplaced(_ context.Context, _ string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published++
	return f.err
}

type captureMetrics struct {
	mu         sync.Mutex
	pipelines  []domain.Pipeline
	retrievals []domain.RetrievalOutcome
	fallbacks  []domain.Pipeline
}

func (m *captureMetrics) RecordPipeline(p domain.Pipeline) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelines = append(m.pipelines, p)
}

func (m *captureMetrics) RecordRetrieval(o domain.RetrievalOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retrievals = append(m.retrievals, o)
}

func (m *captureMetrics) RecordFallback(p domain.Pipeline) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, p)
}
