// Package intent holds the query-authored signal detectors used by pipeline
// selection: the document-summary lexicon and the URL detector. Both operate
// on the raw query only; session state stays with the orchestrator.
package intent

import (
	"regexp"
	"strings"
)

// The lexicon is deliberately broad: it is a recall-oriented curation of the
// phrasings users reach for when they want a digest of whatever they
// uploaded. Narrowing it trades silent misroutes for tidiness, so don't.
var summaryPhrases = []string{
	"summary", "summarize", "summarise", "summarizing", "summarising",
	"overview", "gist", "abstract", "synopsis", "recap", "outline",
	"highlights", "tldr", "tl dr", "in short", "short version",
	"quick summary", "quick overview", "brief summary", "brief overview",
	"executive summary", "briefly explain", "briefly describe",
	"key points", "main points", "important points", "major points",
	"key point", "main point", "important point", "major point",
	"core idea", "core ideas", "central idea", "central ideas",
	"main idea", "main ideas", "major idea", "major ideas",
	"key takeaway", "key takeaways", "main takeaway", "main takeaways",
	"major takeaway", "major takeaways", "main message", "main messages",
	"what is this about", "what is that about", "what is this", "what is that",
	"what does this say", "what does it say", "what is included",
	"what is covered", "what is discussed", "what is explained",
	"what is described", "what is presented", "what is outlined",
	"what is the context", "what is the content", "what are the contents",
	"contents", "context",
}

var docTerms = []string{
	"doc", "docs", "document", "documents", "file", "files", "upload",
	"uploads", "pdf", "report", "paper", "article", "content", "text",
	"note", "notes", "slide", "slides", "presentation", "ppt", "pptx",
}

var docActions = []string{
	"explain", "describe", "detail", "details", "elaborate", "clarify",
	"interpret", "analyze", "analyse", "review", "scan", "look at",
	"go through", "check", "inspect", "parse", "read", "tell me about",
	"what is in", "what is inside", "what does", "what is",
}

var (
	summaryRe   = compileAlternation(summaryPhrases)
	docTermRe   = compileAlternation(docTerms)
	docActionRe = compileAlternation(docActions)

	punctRe = regexp.MustCompile(`[^\pL\pN\s]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

func compileAlternation(phrases []string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Normalize lowercases the query and strips punctuation so the lexicon
// tolerates "Summarize, please!" and "TL;DR?" alike.
func Normalize(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	q = punctRe.ReplaceAllString(q, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(q, " "))
}

// IsSummaryQuery reports whether the query asks for a digest of the uploaded
// corpus: either a standalone summary phrase, or a document term combined
// with an inspect/explain action.
func IsSummaryQuery(query string) bool {
	norm := Normalize(query)
	if norm == "" {
		return false
	}
	if summaryRe.MatchString(norm) {
		return true
	}
	return docTermRe.MatchString(norm) && docActionRe.MatchString(norm)
}
