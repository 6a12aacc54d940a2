package usecase

import (
	"fmt"
	"strings"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

// topicNotes seeds deterministic answers for common question areas when the
// generator is unavailable and no evidence was gathered. Matching is by
// keyword against the normalized query.
var topicNotes = []struct {
	keywords []string
	note     string
}{
	{
		keywords: []string{"agile", "scrum", "kanban", "methodology"},
		note:     "Agile methodologies organize work into short iterations with continuous feedback. Scrum structures teams around sprints, a product backlog, and daily standups, while Kanban limits work in progress and visualizes flow on a board.",
	},
	{
		keywords: []string{"startup", "venture", "founder"},
		note:     "Startups search for a repeatable, scalable business model. Early-stage work centers on validating the problem with real customers, building a minimum viable product, and measuring whether usage supports further investment.",
	},
	{
		keywords: []string{"lean"},
		note:     "Lean thinking focuses on eliminating waste and shortening feedback loops. The build-measure-learn cycle drives validated learning: ship the smallest testable change, measure real behavior, and decide whether to persevere or pivot.",
	},
	{
		keywords: []string{"ai", "machine learning", "neural", "artificial intelligence", "llm"},
		note:     "Machine learning systems learn patterns from data rather than explicit rules. Model quality depends on training data coverage, and modern large language models extend this with transformer architectures trained on broad text corpora.",
	},
	{
		keywords: []string{"crypto", "bitcoin", "blockchain", "ethereum"},
		note:     "Blockchains are append-only distributed ledgers secured by consensus. Cryptocurrencies use them to transfer value without central intermediaries; smart-contract platforms additionally execute programs directly on chain.",
	},
	{
		keywords: []string{"climate", "warming", "emission", "carbon"},
		note:     "Climate change is driven primarily by greenhouse gas emissions from burning fossil fuels. Mitigation combines decarbonizing energy, electrifying transport, and improving efficiency, while adaptation prepares for effects already underway.",
	},
	{
		keywords: []string{"drone", "uav", "quadcopter"},
		note:     "Drones combine lightweight airframes, brushless motors, and flight controllers that fuse IMU and GPS data. Applications range from aerial imaging and mapping to inspection and delivery, with regulations varying by airspace.",
	},
}

// ComposeFallback builds a deterministic answer from whatever evidence the
// request gathered. It never returns an empty string: this is the floor the
// service stands on when the generator is down.
func ComposeFallback(query string, pipeline domain.Pipeline, bundle domain.EvidenceBundle) string {
	var sb strings.Builder

	if bundle.DocumentContext != "" {
		sb.WriteString("Based on your uploaded document: ")
		sb.WriteString(preview(bundle.DocumentContext, 600))
	}

	if len(bundle.WebResults) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("Here is what current web sources say:\n")
		limit := len(bundle.WebResults)
		if limit > 3 {
			limit = 3
		}
		for _, result := range bundle.WebResults[:limit] {
			line := strings.TrimSpace(result.Title)
			if desc := strings.TrimSpace(result.Description); desc != "" {
				if line != "" {
					line += ": "
				}
				line += desc
			}
			if line == "" {
				continue
			}
			sb.WriteString("- ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	if sb.Len() > 0 {
		return strings.TrimSpace(sb.String())
	}

	if note := topicNote(query); note != "" {
		return note
	}

	switch pipeline {
	case domain.PipelineDocumentSummary:
		return "I could not produce a generated summary right now, and the uploaded document did not yield usable text to summarize. Please try again, or re-upload the document."
	case domain.PipelineWebsiteSummary:
		return fmt.Sprintf("I could not extract readable content for your question %q right now. The page may block automated access; please try again or share the relevant text directly.", preview(query, 120))
	default:
		return fmt.Sprintf("I could not reach my knowledge sources to answer %q just now. Please try again in a moment, or rephrase the question with more specifics.", preview(query, 120))
	}
}

// extractiveSummary is the generator-free document summary: the first few
// substantial sentences of the corpus, in document order.
func extractiveSummary(text string) string {
	const (
		maxSentences   = 6
		minSentenceLen = 40
	)
	var picked []string
	for _, sent := range strings.Split(text, ". ") {
		sent = strings.TrimSpace(sent)
		if len([]rune(sent)) <= minSentenceLen {
			continue
		}
		if !strings.HasSuffix(sent, ".") {
			sent += "."
		}
		picked = append(picked, sent)
		if len(picked) == maxSentences {
			break
		}
	}
	return strings.Join(picked, " ")
}

func topicNote(query string) string {
	q := strings.ToLower(query)
	words := make(map[string]bool)
	for _, w := range strings.Fields(q) {
		words[strings.Trim(w, ".,;:!?'\"()")] = true
	}
	for _, topic := range topicNotes {
		for _, kw := range topic.keywords {
			// Phrases match by substring; single words need an exact token so
			// "ai" does not fire on "said".
			if strings.Contains(kw, " ") {
				if strings.Contains(q, kw) {
					return topic.note
				}
			} else if words[kw] {
				return topic.note
			}
		}
	}
	return ""
}
