package domain

import "time"

// RetrievalOutcome distinguishes the three retriever results callers must
// branch on structurally: evidence found, no corpus ever ingested, or a
// corpus that produced nothing above the relevance threshold.
type RetrievalOutcome int

const (
	RetrievalHit RetrievalOutcome = iota
	RetrievalNoCorpus
	RetrievalNoRelevant
	RetrievalError
)

type ScoredChunk struct {
	Chunk
	Score float32 `json:"score"`
}

type Retrieval struct {
	Outcome  RetrievalOutcome
	Evidence string
	Hits     []ScoredChunk
}

func (r Retrieval) HasEvidence() bool {
	return r.Outcome == RetrievalHit && r.Evidence != ""
}

type WebResult struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

const (
	PageKindWebsite = "website"
	PageKindYouTube = "youtube_video"
)

// PageContent is the best-effort extraction of a fetched URL. Video fields
// are populated only for the YouTube kind.
type PageContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Kind    string `json:"type"`

	Channel       string `json:"channel,omitempty"`
	Description   string `json:"description,omitempty"`
	Duration      string `json:"duration,omitempty"`
	Views         string `json:"views,omitempty"`
	UploadDate    string `json:"upload_date,omitempty"`
	CaptionSample string `json:"caption_sample,omitempty"`
}
