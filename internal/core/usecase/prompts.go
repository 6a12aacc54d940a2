package usecase

import (
	"fmt"
	"strings"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

const summaryInputChars = 4000

func buildSynthesisPrompt(query string, bundle domain.EvidenceBundle) string {
	var sb strings.Builder
	sb.WriteString("Answer the user's question using the context below. When more than one source is present, synthesize them jointly into a single coherent answer rather than treating any one in isolation. Prefer the document context when it is relevant, supplement with web results, and say directly when the context is insufficient. Do not restate the question verbatim, and do not refer to the previous conversation in your answer; use it only as background.\n\n")

	if bundle.Digest != "" {
		sb.WriteString("Conversation so far:\n")
		sb.WriteString(bundle.Digest)
		sb.WriteString("\n\n")
	}
	if bundle.DocumentContext != "" {
		sb.WriteString("Document context:\n")
		sb.WriteString(bundle.DocumentContext)
		sb.WriteString("\n\n")
	}
	if len(bundle.WebResults) > 0 {
		sb.WriteString("Web results:\n")
		for i, result := range bundle.WebResults {
			fmt.Fprintf(&sb, "[%d] %s\n%s\n", i+1, result.Title, result.Description)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Question:\n")
	sb.WriteString(query)
	return sb.String()
}

func buildDocumentSummaryPrompt(text, digest string) string {
	var sb strings.Builder
	sb.WriteString("Summarize the following document. Cover the main topics, key claims, and any conclusions. Write a focused summary a reader could use instead of the document.\n\n")
	if digest != "" {
		sb.WriteString("Conversation so far:\n")
		sb.WriteString(digest)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Document:\n")
	sb.WriteString(preview(text, summaryInputChars))
	return sb.String()
}

func buildWebsitePrompt(query string, page *domain.PageContent) string {
	if page.Kind == domain.PageKindYouTube {
		var sb strings.Builder
		sb.WriteString("Summarize this YouTube video from its metadata. Say what the video covers and who it is for.\n\n")
		fmt.Fprintf(&sb, "Title: %s\n", page.Title)
		if page.Channel != "" {
			fmt.Fprintf(&sb, "Channel: %s\n", page.Channel)
		}
		if page.Duration != "" {
			fmt.Fprintf(&sb, "Duration: %s\n", page.Duration)
		}
		if page.Views != "" {
			fmt.Fprintf(&sb, "Views: %s\n", page.Views)
		}
		if page.UploadDate != "" {
			fmt.Fprintf(&sb, "Uploaded: %s\n", page.UploadDate)
		}
		if page.Description != "" {
			fmt.Fprintf(&sb, "Description: %s\n", page.Description)
		}
		fmt.Fprintf(&sb, "\nUser request: %s", query)
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString("Summarize the following web page and answer the user's request about it.\n\n")
	fmt.Fprintf(&sb, "Page title: %s\nPage URL: %s\n\nPage content:\n%s\n\nUser request: %s",
		page.Title, page.URL, page.Content, query)
	return sb.String()
}
