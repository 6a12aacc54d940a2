// Package memindex is an in-process exact nearest-neighbour store keyed by
// session. Each session owns one corpus generation: a rebuild swaps the whole
// generation atomically, so readers never observe a half-replaced corpus.
package memindex

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

var (
	errMismatchedLengths = errors.New("chunk and vector counts differ")
	errMismatchedDims    = errors.New("vectors have mixed dimensions")
)

type generation struct {
	dim     int
	chunks  []domain.Chunk
	vectors [][]float32
}

type session struct {
	mu      sync.RWMutex
	gen     *generation
	consult bool
}

// Store maps session IDs to their corpus generations. Search is a brute-force
// inner-product scan over L2-normalized vectors, which is exact cosine
// similarity and plenty fast at the per-session corpus sizes we cap at.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

func (s *Store) session(id string, create bool) *session {
	s.mu.RLock()
	sess := s.sessions[id]
	s.mu.RUnlock()
	if sess != nil || !create {
		return sess
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess = s.sessions[id]; sess == nil {
		sess = &session{}
		s.sessions[id] = sess
	}
	return sess
}

// Rebuild replaces the session's corpus with the given chunks and vectors and
// arms the consult flag so the next retrieval-eligible query consults the
// fresh corpus exactly once.
func (s *Store) Rebuild(sessionID string, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return domain.WrapError(domain.ErrInvalidInput, "memindex.rebuild", errMismatchedLengths)
	}
	gen := &generation{chunks: chunks, vectors: make([][]float32, len(vectors))}
	for i, v := range vectors {
		if gen.dim == 0 {
			gen.dim = len(v)
		}
		if len(v) != gen.dim {
			return domain.WrapError(domain.ErrInvalidInput, "memindex.rebuild", errMismatchedDims)
		}
		gen.vectors[i] = normalize(v)
	}

	sess := s.session(sessionID, true)
	sess.mu.Lock()
	sess.gen = gen
	sess.consult = true
	sess.mu.Unlock()
	return nil
}

// Search returns the top-k chunks by cosine similarity, descending, with ties
// broken by insertion order. hasCorpus distinguishes an empty result because
// nothing was uploaded from one where nothing scored.
func (s *Store) Search(sessionID string, query []float32, k int) (hits []domain.ScoredChunk, hasCorpus bool) {
	sess := s.session(sessionID, false)
	if sess == nil {
		return nil, false
	}
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	gen := sess.gen
	if gen == nil || len(gen.chunks) == 0 {
		return nil, false
	}
	if k <= 0 || len(query) != gen.dim {
		return nil, true
	}

	q := normalize(query)
	hits = make([]domain.ScoredChunk, 0, len(gen.chunks))
	for i, v := range gen.vectors {
		hits = append(hits, domain.ScoredChunk{Chunk: gen.chunks[i], Score: dot(q, v)})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, true
}

// Chunks returns the session's current corpus in insertion order. The bool
// mirrors Search's hasCorpus.
func (s *Store) Chunks(sessionID string) ([]domain.Chunk, bool) {
	sess := s.session(sessionID, false)
	if sess == nil {
		return nil, false
	}
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	if sess.gen == nil || len(sess.gen.chunks) == 0 {
		return nil, false
	}
	out := make([]domain.Chunk, len(sess.gen.chunks))
	copy(out, sess.gen.chunks)
	return out, true
}

func (s *Store) HasCorpus(sessionID string) bool {
	sess := s.session(sessionID, false)
	if sess == nil {
		return false
	}
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.gen != nil && len(sess.gen.chunks) > 0
}

// ConsumeConsultFlag reads and clears the flag in one critical section, so
// concurrent queries cannot both win the one-shot document consultation.
func (s *Store) ConsumeConsultFlag(sessionID string) bool {
	sess := s.session(sessionID, false)
	if sess == nil {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	armed := sess.consult
	sess.consult = false
	return armed
}

// ClearConsultFlag disarms the flag without reading it. Document-summary
// queries call this: the summary already consumed the corpus.
func (s *Store) ClearConsultFlag(sessionID string) {
	sess := s.session(sessionID, false)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	sess.consult = false
	sess.mu.Unlock()
}

// Drop discards a session's corpus entirely.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
