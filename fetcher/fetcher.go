// Package fetcher retrieves the article corpus from a primary JSON
// post-list endpoint, falling back to an RSS feed, and ultimately to
// an empty corpus. Fetch never fails observably.
package fetcher

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"research-agent/knowledge"
	"research-agent/textclean"
)

const (
	placeholderTitle  = "Unknown Title"
	placeholderAuthor = "Unknown Author"
)

// Client fetches article records for one initialization cycle.
type Client struct {
	httpClient *http.Client
	apiURL     string
	feedURL    string
	scrape     bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithScrapeFallback toggles the per-article page scrape used when a
// record carries neither body nor description.
func WithScrapeFallback(enabled bool) Option {
	return func(c *Client) {
		c.scrape = enabled
	}
}

// NewClient creates a fetcher for the given primary endpoint and
// fallback feed URL.
func NewClient(apiURL, feedURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     apiURL,
		feedURL:    feedURL,
		scrape:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the ordered corpus. It tries the primary JSON API
// first, falls back to the RSS feed on any primary failure, and
// returns an empty slice when both tiers fail.
func (c *Client) Fetch(ctx context.Context) []knowledge.Article {
	articles, err := c.fetchAPI(ctx)
	if err == nil {
		slog.Info("fetched corpus from JSON API", "count", len(articles))
		return articles
	}
	slog.Error("primary fetch failed, falling back to RSS", "url", c.apiURL, "error", err)

	articles, err = c.fetchFeed(ctx)
	if err == nil {
		slog.Info("fetched corpus from RSS fallback", "count", len(articles))
		return articles
	}
	slog.Error("RSS fallback failed, corpus is empty", "url", c.feedURL, "error", err)

	return []knowledge.Article{}
}

// apiPost mirrors the structured post-list record shape.
type apiPost struct {
	Title            string `json:"title"`
	PublishedBylines []struct {
		Name string `json:"name"`
	} `json:"publishedBylines"`
	PostDate     string `json:"post_date"`
	CanonicalURL string `json:"canonical_url"`
	Description  string `json:"description"`
	BodyHTML     string `json:"body_html"`
}

func (c *Client) fetchAPI(ctx context.Context) ([]knowledge.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch post list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var posts []apiPost
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode post list: %w", err)
	}

	articles := make([]knowledge.Article, 0, len(posts))
	for _, post := range posts {
		title := post.Title
		if title == "" {
			title = placeholderTitle
		}
		author := placeholderAuthor
		if len(post.PublishedBylines) > 0 && post.PublishedBylines[0].Name != "" {
			author = post.PublishedBylines[0].Name
		}

		rawContent := post.BodyHTML
		if rawContent == "" {
			rawContent = post.Description
		}
		content := textclean.Clean(rawContent)
		if content == "" && post.CanonicalURL != "" {
			content = c.scrapePage(ctx, post.CanonicalURL)
		}

		article := knowledge.Article{
			Title:       title,
			Author:      author,
			Published:   post.PostDate,
			Link:        post.CanonicalURL,
			Summary:     textclean.Clean(post.Description),
			FullContent: content,
		}
		articles = append(articles, article)
		slog.Info("processed article", "rank", len(articles), "title", knowledge.Truncate(article.Title, 50))
	}

	return articles, nil
}

// RSS structs follow the common feed layout, including the
// content:encoded and dc:creator namespaced elements.
type rssRoot struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Content     string `xml:"encoded"` // content:encoded
	PubDate     string `xml:"pubDate"`
	Author      string `xml:"author"`
	Creator     string `xml:"creator"` // dc:creator
}

func (c *Client) fetchFeed(ctx context.Context) ([]knowledge.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var root rssRoot
	if err := xml.NewDecoder(resp.Body).Decode(&root); err != nil {
		return nil, fmt.Errorf("parse feed xml: %w", err)
	}

	articles := make([]knowledge.Article, 0, len(root.Channel.Items))
	for _, item := range root.Channel.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = placeholderTitle
		}
		author := strings.TrimSpace(item.Author)
		if author == "" {
			author = strings.TrimSpace(item.Creator)
		}
		if author == "" {
			author = placeholderAuthor
		}

		rawContent := item.Content
		if rawContent == "" {
			rawContent = item.Description
		}

		articles = append(articles, knowledge.Article{
			Title:       title,
			Author:      author,
			Published:   strings.TrimSpace(item.PubDate),
			Link:        strings.TrimSpace(item.Link),
			Summary:     textclean.Clean(item.Description),
			FullContent: textclean.Clean(rawContent),
		})
		slog.Info("processed feed item", "rank", len(articles), "title", knowledge.Truncate(title, 50))
	}

	return articles, nil
}

// scrapePage recovers article text from the canonical page when the
// record itself carried no content. Failures degrade to empty content.
func (c *Client) scrapePage(ctx context.Context, rawURL string) string {
	if !c.scrape {
		return ""
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Scheme == "" || pageURL.Host == "" {
		slog.Warn("skipping scrape of invalid URL", "url", rawURL)
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ResearchAgent/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("scrape fetch failed", "url", rawURL, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("scrape fetch returned non-OK status", "url", rawURL, "status", resp.StatusCode)
		return ""
	}

	page, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		slog.Warn("scrape parse failed", "url", rawURL, "error", err)
		return ""
	}

	return strings.Join(strings.Fields(page.TextContent), " ")
}
