package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1.0,
		BreakerEnabled:      false,
	})
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "secret" {
			t.Errorf("api key = %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req["q"] != "lean startup" {
			t.Errorf("q = %v", req["q"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic": []map[string]string{
				{"title": "Lean Startup", "snippet": "Build measure learn.", "link": "https://example.com/a", "date": "Mar 4, 2024"},
				{"title": "", "snippet": "", "link": "https://example.com/empty"},
				{"title": "Second", "snippet": "Another take.", "link": "https://example.com/b"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", testExecutor())
	results, err := c.Search(context.Background(), "lean startup", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Lean Startup" || results[0].URL != "https://example.com/a" {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[0].PublishedAt.IsZero() {
		t.Error("date was not parsed")
	}
	if results[1].PublishedAt.IsZero() != true {
		t.Error("missing date should stay zero")
	}
}

func TestSearchEmptyOrganicIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"organic": []any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", testExecutor())
	results, err := c.Search(context.Background(), "obscure query", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestSearchSurfacesAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "wrong", testExecutor())
	if _, err := c.Search(context.Background(), "q", 3); err == nil {
		t.Fatal("expected error")
	}
}
