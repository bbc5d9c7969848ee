package loaders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docuchat/internal/chatbot_service/rag/interfaces"
	"docuchat/internal/chatbot_service/rag/schema"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// WebLoader implements the Loader interface for websites. Starting from one
// URL it crawls same-domain links breadth-first up to MaxPages pages and
// concatenates the visible text of every page.
type WebLoader struct {
	MaxPages int
	client   *http.Client
}

// NewWebLoader creates a WebLoader. maxPages caps the crawl; a non-positive
// value falls back to 10.
func NewWebLoader(maxPages int) *WebLoader {
	if maxPages <= 0 {
		maxPages = 10
	}
	return &WebLoader{
		MaxPages: maxPages,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Load crawls the website rooted at rawURL and returns the collected text as
// a single Document. Pages that fail to fetch are skipped; the crawl only
// fails when the starting URL itself is unusable.
func (l *WebLoader) Load(ctx context.Context, rawURL string) ([]*schema.Document, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid website URL: %w", err)
	}

	visited := make(map[string]bool)
	toVisit := []string{rawURL}
	var textBuilder strings.Builder

	for len(toVisit) > 0 && len(visited) < l.MaxPages {
		pageURL := toVisit[0]
		toVisit = toVisit[1:]
		if visited[pageURL] {
			continue
		}

		text, links, err := l.fetchPage(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		visited[pageURL] = true

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")

		for _, link := range links {
			resolved, err := base.Parse(link)
			if err != nil {
				continue
			}
			resolved.Fragment = ""
			full := resolved.String()
			// Stay on the starting domain.
			if resolved.Host != base.Host {
				continue
			}
			if !visited[full] && !contains(toVisit, full) {
				toVisit = append(toVisit, full)
			}
		}
	}

	if len(visited) == 0 {
		return nil, fmt.Errorf("could not fetch any page from %s", rawURL)
	}

	doc := &schema.Document{
		ID:   uuid.New().String(),
		Text: textBuilder.String(),
		Metadata: map[string]interface{}{
			schema.MetadataKeySourceURL: rawURL,
		},
	}

	return []*schema.Document{doc}, nil
}

// fetchPage downloads one page and returns its visible text and outgoing
// links.
func (l *WebLoader) fetchPage(ctx context.Context, pageURL string) (string, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("status %d from %s", resp.StatusCode, pageURL)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return "", nil, err
	}

	var lines []string
	var links []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "href" && attr.Val != "" {
						links = append(links, attr.Val)
					}
				}
			}
		}
		if n.Type == html.TextNode {
			if line := strings.TrimSpace(n.Data); line != "" {
				lines = append(lines, line)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(lines, "\n"), links, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ interfaces.Loader = (*WebLoader)(nil)
