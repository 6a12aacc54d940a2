package webpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

const articleHTML = `<!doctype html>
<html><head><title>Understanding Raft</title></head>
<body>
<nav><p>Navigation links that should never appear in extracted content here</p></nav>
<p>Raft is a consensus algorithm designed to be understandable by ordinary engineers.</p>
<p>short</p>
<p>It decomposes consensus into leader election, log replication, and safety arguments.</p>
<footer><p>Copyright notice paragraph long enough to pass the length filter</p></footer>
</body></html>`

func TestFetchWebsite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("user agent = %q", ua)
		}
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	page, err := NewFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if page.Kind != domain.PageKindWebsite {
		t.Errorf("kind = %q", page.Kind)
	}
	if page.Title != "Understanding Raft" {
		t.Errorf("title = %q", page.Title)
	}
	if !strings.Contains(page.Content, "consensus algorithm") {
		t.Errorf("content = %q", page.Content)
	}
	if strings.Contains(page.Content, "short") {
		t.Error("short paragraph should be filtered")
	}
	if strings.Contains(page.Content, "Navigation") || strings.Contains(page.Content, "Copyright") {
		t.Error("nav/footer content leaked into extraction")
	}
}

func TestFetchWebsiteCapsContent(t *testing.T) {
	para := "<p>" + strings.Repeat("meaningful words about the topic ", 20) + "</p>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>t</title></head><body>" + strings.Repeat(para, 30) + "</body></html>"))
	}))
	defer srv.Close()

	page, err := NewFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Content) > maxContentChars {
		t.Fatalf("content length %d exceeds cap", len(page.Content))
	}
}

func TestFetchWebsiteNoReadableContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><div>only divs here</div></body></html>"))
	}))
	defer srv.Close()

	if _, err := NewFetcher().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for content-free page")
	}
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewFetcher().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}

const videoHTML = `<!doctype html>
<html><head>
<title>ignored</title>
<meta property="og:title" content="Go Concurrency Patterns">
<meta property="og:description" content="Rob Pike walks through goroutines and channels.">
<link itemprop="name" content="Google Developers">
<script type="application/ld+json">{"duration":"PT29M8S","uploadDate":"2012-07-02","interactionStatistic":{"userInteractionCount":123456}}</script>
</head><body></body></html>`

func TestFetchYouTube(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(videoHTML))
	}))
	defer srv.Close()

	f := NewFetcher()
	doc, err := f.document(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	page, err := f.extractYouTube(doc, "https://www.youtube.com/watch?v=f6kdp27TYZs")
	if err != nil {
		t.Fatal(err)
	}
	if page.Kind != domain.PageKindYouTube {
		t.Errorf("kind = %q", page.Kind)
	}
	if page.Title != "Go Concurrency Patterns" {
		t.Errorf("title = %q", page.Title)
	}
	if page.Channel != "Google Developers" {
		t.Errorf("channel = %q", page.Channel)
	}
	if page.Duration != "PT29M8S" || page.UploadDate != "2012-07-02" || page.Views != "123456" {
		t.Errorf("ld+json fields: %+v", page)
	}
	if page.CaptionSample == "" {
		t.Error("caption sample should mirror the description")
	}
}
