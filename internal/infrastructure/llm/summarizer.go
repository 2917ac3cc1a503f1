package llm

import (
	"context"
	"fmt"
	"strings"

	"newstriage/internal/domain"
	"newstriage/internal/textutil"
)

const (
	maxArticleContext = 5000
	maxSourceContext  = 1000
	maxContextSources = 10
)

// Summarize synthesizes the full article and its related sources into a
// formatted write-up, parsed from the model's sectioned reply.
func (c *Client) Summarize(ctx context.Context, article domain.FullArticle, related []domain.SourceRef) (domain.Summary, error) {
	payload := chatRequest{
		Model: c.summaryModel,
		Messages: []chatMessage{
			{Role: "system", Content: safePrompt(c.systemPrompt)},
			{Role: "user", Content: buildContext(article, related)},
		},
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	}

	content, err := c.complete(ctx, payload)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summarize %s: %w", article.URL, err)
	}

	summary := parseSummary(content)
	summary.OriginalURL = article.URL
	return summary, nil
}

func buildContext(article domain.FullArticle, related []domain.SourceRef) string {
	var b strings.Builder

	b.WriteString("=== MAIN ARTICLE ===\n")
	fmt.Fprintf(&b, "Title: %s\n", article.Title)
	fmt.Fprintf(&b, "URL: %s\n", article.URL)
	fmt.Fprintf(&b, "Date: %s\n", article.Date)
	fmt.Fprintf(&b, "\nContent:\n%s\n", textutil.Truncate(article.Content, maxArticleContext))

	if len(related) > 0 {
		b.WriteString("\n=== RELATED SOURCES ===\n")
		for i, source := range related {
			if i >= maxContextSources {
				break
			}
			fmt.Fprintf(&b, "\nSource %d:\n", i+1)
			fmt.Fprintf(&b, "URL: %s\n", source.URL)
			fmt.Fprintf(&b, "Title: %s\n", source.Title)
			fmt.Fprintf(&b, "Content: %s\n", textutil.Truncate(source.Content, maxSourceContext))
		}
	}

	b.WriteString("\n=== YOUR TASK ===\n")
	b.WriteString("Synthesize the main article and related sources into a " +
		"comprehensive summary following the exact format specified in " +
		"your system prompt. Focus on enterprise implications, technical " +
		"details, and competitive context.")

	return b.String()
}

// parseSummary splits the model's Date:/Title:/Summary:/Links: sections.
func parseSummary(text string) domain.Summary {
	var (
		summary      domain.Summary
		section      string
		summaryLines []string
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "Date:"):
			summary.Date = strings.TrimSpace(strings.TrimPrefix(line, "Date:"))
		case strings.HasPrefix(line, "Title:"):
			section = "title"
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "Title:")); rest != "" {
				summary.Title = rest
			}
		case strings.HasPrefix(line, "Summary:"):
			section = "summary"
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "Summary:")); rest != "" {
				summaryLines = append(summaryLines, rest)
			}
		case strings.HasPrefix(line, "Links:") || strings.HasPrefix(line, "Sources:"):
			section = "links"
		case strings.HasPrefix(line, "http"):
			summary.Links = append(summary.Links, line)
		case section == "title" && line != "":
			summary.Title = line
		case section == "summary" && line != "":
			summaryLines = append(summaryLines, line)
		}
	}

	summary.Body = strings.Join(summaryLines, "\n\n")
	return summary
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You synthesize news articles into structured summaries with Date, Title, Summary, and Links sections."
	}
	return prompt
}
