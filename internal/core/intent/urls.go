package intent

import (
	"net/url"
	"regexp"
	"strings"
)

// Pattern order matters: YouTube watch links contain "https://", so they must
// be claimed before the generic https pattern, and bare www links only count
// when no schemed URL already covers them.
var urlPatterns = []struct {
	re      string
	youtube bool
}{
	{`https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+(?:&[\w%=&.-]*)?`, true},
	{`https?://youtu\.be/[\w-]+(?:\?[\w%=&.-]*)?`, true},
	{`https?://[\w.-]+\.[a-zA-Z]{2,}(?:/[^\s]*)?`, false},
	{`www\.[\w-]+(?:\.[\w-]+)+(?:/[^\s]*)?`, false},
}

type urlPattern struct {
	re      *regexp.Regexp
	youtube bool
}

var compiledURLPatterns = func() []urlPattern {
	out := make([]urlPattern, 0, len(urlPatterns))
	for _, p := range urlPatterns {
		out = append(out, urlPattern{re: regexp.MustCompile(p.re), youtube: p.youtube})
	}
	return out
}()

// ExtractURLs returns every distinct URL in the query, in pattern-priority
// order. A match that is a prefix of one already collected (or vice versa) is
// treated as the same link, which keeps "www.example.com" from shadowing
// "https://www.example.com/page".
func ExtractURLs(query string) []string {
	var found []string
	for _, p := range compiledURLPatterns {
		for _, raw := range p.re.FindAllString(query, -1) {
			u := canonicalURL(raw)
			if u == "" {
				continue
			}
			dup := false
			for i, existing := range found {
				if strings.HasPrefix(existing, u) {
					dup = true
					break
				}
				if strings.HasPrefix(u, existing) {
					found[i] = u
					dup = true
					break
				}
			}
			if !dup {
				found = append(found, u)
			}
		}
	}
	return found
}

// FirstURL returns the highest-priority URL in the query, or "" when the
// query carries none.
func FirstURL(query string) string {
	if urls := ExtractURLs(query); len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// IsYouTubeURL reports whether the URL points at a YouTube video.
func IsYouTubeURL(u string) bool {
	for _, p := range compiledURLPatterns {
		if p.youtube && p.re.MatchString(u) {
			return true
		}
	}
	return false
}

func canonicalURL(raw string) string {
	raw = strings.TrimRight(raw, ".,;:!?)'\"")
	if strings.HasPrefix(raw, "www.") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return raw
}
