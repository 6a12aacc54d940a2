// Package webpage extracts readable content from URLs named in queries.
// Extraction is best-effort: a page that yields nothing readable is reported
// as an error and the caller degrades to its fallback answer.
package webpage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/intent"
)

const (
	maxContentChars  = 3000
	minParagraphLen  = 30
	maxCaptionSample = 500
)

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		userAgent:  "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	}
}

// Fetch downloads the URL and extracts its readable content. YouTube video
// pages get metadata extraction instead of the paragraph heuristic.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.PageContent, error) {
	doc, err := f.document(ctx, url)
	if err != nil {
		return nil, err
	}
	if intent.IsYouTubeURL(url) {
		return f.extractYouTube(doc, url)
	}
	return f.extractWebsite(doc, url)
}

func (f *Fetcher) document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create page request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

func (f *Fetcher) extractWebsite(doc *goquery.Document, url string) (*domain.PageContent, error) {
	title := strings.TrimSpace(doc.Find("title").First().Text())

	var sb strings.Builder
	doc.Find("script, style, nav, footer, header").Remove()
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) <= minParagraphLen {
			return true
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
		return sb.Len() < maxContentChars
	})

	content := sb.String()
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("page %s yielded no readable content", url)
	}

	return &domain.PageContent{
		Title:   title,
		Content: content,
		URL:     url,
		Kind:    domain.PageKindWebsite,
	}, nil
}

func (f *Fetcher) extractYouTube(doc *goquery.Document, url string) (*domain.PageContent, error) {
	meta := func(prop string) string {
		val, _ := doc.Find(`meta[property="` + prop + `"]`).First().Attr("content")
		if val == "" {
			val, _ = doc.Find(`meta[name="` + prop + `"]`).First().Attr("content")
		}
		return strings.TrimSpace(val)
	}

	title := meta("og:title")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return nil, fmt.Errorf("video %s yielded no metadata", url)
	}

	description := meta("og:description")
	channel, _ := doc.Find(`link[itemprop="name"]`).First().Attr("content")

	page := &domain.PageContent{
		Title:       title,
		Content:     description,
		URL:         url,
		Kind:        domain.PageKindYouTube,
		Channel:     strings.TrimSpace(channel),
		Description: description,
	}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var ld struct {
			Duration   string `json:"duration"`
			UploadDate string `json:"uploadDate"`
			Interaction struct {
				UserInteractionCount json.Number `json:"userInteractionCount"`
			} `json:"interactionStatistic"`
		}
		if err := json.Unmarshal([]byte(sel.Text()), &ld); err != nil {
			return true
		}
		if ld.Duration == "" && ld.UploadDate == "" {
			return true
		}
		page.Duration = ld.Duration
		page.UploadDate = ld.UploadDate
		page.Views = ld.Interaction.UserInteractionCount.String()
		return false
	})

	if description != "" {
		sample := description
		if len(sample) > maxCaptionSample {
			sample = sample[:maxCaptionSample]
		}
		page.CaptionSample = sample
	}
	return page, nil
}
