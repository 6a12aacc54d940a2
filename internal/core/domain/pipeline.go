package domain

// Pipeline is one of the four mutually exclusive response strategies chosen
// per query. Exactly one is reported back to the caller for every answer.
type Pipeline string

const (
	PipelineDocumentSummary Pipeline = "document_summary"
	PipelineWebsiteSummary  Pipeline = "website_summary"
	PipelineRAGSearch       Pipeline = "rag_search"
	PipelineWebOnly         Pipeline = "web_only"
)

type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id"`
}

type QueryResult struct {
	Answer    string   `json:"answer"`
	Pipeline  Pipeline `json:"pipeline_used"`
	SessionID string   `json:"session_id"`
}

// EvidenceBundle aggregates the optional inputs for answer synthesis.
// It is assembled fresh per request and never persisted.
type EvidenceBundle struct {
	DocumentContext string
	WebResults      []WebResult
	Digest          string
}
