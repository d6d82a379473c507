package research

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	defaultMaxExcerptChars = 1500
	maxParagraphs          = 8
	pageUserAgent          = "Mozilla/5.0"
)

// PageFetcher downloads a page and extracts a short plain-text excerpt
// from its leading paragraphs.
type PageFetcher struct {
	httpClient *http.Client
	maxChars   int

	// politeDelay spaces out fetches against the same hosts the search
	// returned. Tests replace it with a no-op.
	politeDelay func()
}

func NewPageFetcher() *PageFetcher {
	return &PageFetcher{
		httpClient: &http.Client{Timeout: 8 * time.Second},
		maxChars:   defaultMaxExcerptChars,
		politeDelay: func() {
			time.Sleep(120*time.Millisecond + time.Duration(rand.Int63n(int64(180*time.Millisecond))))
		},
	}
}

// PageText fetches the URL and returns up to maxChars of paragraph text.
// An empty string with nil error means the page yielded nothing usable.
func (f *PageFetcher) PageText(ctx context.Context, pageURL string) (string, error) {
	f.politeDelay()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build page request failed: %w", err)
	}
	req.Header.Set("User-Agent", pageUserAgent)

	resp, err := doWithRetry(ctx, f.httpClient, req, 1)
	if err != nil {
		return "", fmt.Errorf("fetch page failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("page response status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page html failed: %w", err)
	}

	paragraphs := collectParagraphs(doc, maxParagraphs)
	text := strings.Join(paragraphs, "\n\n")
	if runes := []rune(text); len(runes) > f.maxChars {
		text = string(runes[:f.maxChars]) + "..."
	}
	return text, nil
}

// collectParagraphs walks the DOM in document order and returns the text
// of the first n <p> elements, skipping empty ones.
func collectParagraphs(root *html.Node, n int) []string {
	var paragraphs []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if len(paragraphs) >= n {
			return
		}
		if node.Type == html.ElementNode && node.Data == "p" {
			if text := strings.TrimSpace(nodeText(node)); text != "" {
				paragraphs = append(paragraphs, text)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return paragraphs
}

func nodeText(node *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return b.String()
}
