// Package serper queries the Serper.dev Google Search API for ranked web
// snippets. An empty organic list is a legitimate outcome and never an error.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	exec       *resilience.Executor
}

func NewClient(baseURL, apiKey string, exec *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		exec:       exec,
	}
}

type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
		Date    string `json:"date"`
	} `json:"organic"`
}

func (c *Client) Search(ctx context.Context, query string, numResults int) ([]domain.WebResult, error) {
	if numResults <= 0 {
		numResults = 5
	}

	var results []domain.WebResult
	err := c.exec.Execute(ctx, "serper_search", func(ctx context.Context) error {
		found, err := c.search(ctx, query, numResults)
		if err != nil {
			return err
		}
		results = found
		return nil
	}, classifySearchError)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) search(ctx context.Context, query string, numResults int) ([]domain.WebResult, error) {
	body, err := json.Marshal(map[string]any{"q": query, "num": numResults})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &statusError{status: resp.Status, statusCode: resp.StatusCode, body: string(errBody)}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]domain.WebResult, 0, len(parsed.Organic))
	for _, item := range parsed.Organic {
		if item.Title == "" && item.Snippet == "" {
			continue
		}
		result := domain.WebResult{
			Title:       item.Title,
			Description: item.Snippet,
			URL:         item.Link,
			Source:      "serper",
		}
		if item.Date != "" {
			if ts, err := time.Parse("Jan 2, 2006", item.Date); err == nil {
				result.PublishedAt = ts
			}
		}
		results = append(results, result)
	}
	return results, nil
}

type statusError struct {
	status     string
	statusCode int
	body       string
}

func (e *statusError) Error() string {
	msg := strings.TrimSpace(e.body)
	if msg == "" {
		return fmt.Sprintf("serper search status: %s", e.status)
	}
	return fmt.Sprintf("serper search status: %s: %s", e.status, msg)
}
