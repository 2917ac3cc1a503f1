// Package reader fetches clean full-text article content, through a
// markdown reader proxy when configured, or by direct HTML extraction.
package reader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newstriage/internal/domain"
	"newstriage/internal/ports"
	"newstriage/internal/textutil"
)

const (
	maxBodyBytes   = 2 << 20
	titleScanLines = 20
	dateSniffBytes = 1000
)

// Reader fetches article content. With a base URL set it proxies through a
// markdown reader service; without one it pulls the page directly and
// strips boilerplate from the HTML.
type Reader struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.ArticleReader = (*Reader)(nil)

// NewReader wires the reader proxy base URL and an HTTP client.
func NewReader(baseURL string, client *http.Client, logger *slog.Logger) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Reader{baseURL: baseURL, client: client, logger: logger}
}

// Fetch retrieves the clean article behind url.
func (r *Reader) Fetch(ctx context.Context, url string) (domain.FullArticle, error) {
	if r.baseURL == "" {
		return r.fetchHTML(ctx, url)
	}
	return r.fetchMarkdown(ctx, url)
}

func (r *Reader) fetchMarkdown(ctx context.Context, url string) (domain.FullArticle, error) {
	content, err := r.get(ctx, r.baseURL+url)
	if err != nil {
		return domain.FullArticle{}, err
	}

	return domain.FullArticle{
		URL:     url,
		Title:   markdownTitle(content),
		Date:    textutil.ExtractDate(textutil.Truncate(content, dateSniffBytes)),
		Content: textutil.Clean(content),
	}, nil
}

func (r *Reader) fetchHTML(ctx context.Context, url string) (domain.FullArticle, error) {
	raw, err := r.get(ctx, url)
	if err != nil {
		return domain.FullArticle{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return domain.FullArticle{}, fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = "Untitled"
	}

	var paragraphs []string
	doc.Find("article p, main p, p").Each(func(_ int, s *goquery.Selection) {
		text := textutil.Clean(s.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	content := strings.Join(paragraphs, " ")

	return domain.FullArticle{
		URL:     url,
		Title:   title,
		Date:    textutil.ExtractDate(textutil.Truncate(content, dateSniffBytes)),
		Content: content,
	}, nil
}

func (r *Reader) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "newstriage/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}

// markdownTitle looks for the first h1 heading near the top of a markdown
// document.
func markdownTitle(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i >= titleScanLines {
			break
		}
		if strings.HasPrefix(line, "# ") {
			return textutil.Clean(strings.TrimPrefix(line, "# "))
		}
	}
	return "Untitled"
}
