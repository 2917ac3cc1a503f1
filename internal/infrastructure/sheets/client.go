// Package sheets writes run output to a Google spreadsheet: one tab per
// bucket, primary-first rows for duplicate groups.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newstriage/internal/domain"
	"newstriage/internal/ports"
)

const defaultBaseURL = "https://sheets.googleapis.com"

const (
	processedTab = "Processed Articles"
	reviewTab    = "Review Queue"
	rejectedTab  = "Rejected Log"
)

// Client appends rows through the Sheets values API.
type Client struct {
	baseURL       string
	spreadsheetID string
	accessToken   string
	httpClient    *http.Client
	logger        *slog.Logger
	now           func() time.Time
}

var _ ports.Sink = (*Client)(nil)

// NewClient wires the spreadsheet and bearer credentials.
func NewClient(spreadsheetID, accessToken string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:       defaultBaseURL,
		spreadsheetID: spreadsheetID,
		accessToken:   accessToken,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
		now:           time.Now,
	}
}

// AppendProcessed writes one enriched row to the processed tab.
func (c *Client) AppendProcessed(ctx context.Context, entry domain.ProcessedEntry) error {
	row := []any{
		entry.Date,
		entry.Source,
		entry.Category,
		entry.Title,
		entry.Summary,
		strings.Join(entry.Links, "\n"),
		entry.SourceCount,
		formatConfidence(entry.Confidence),
		c.now().UTC().Format(time.RFC3339),
		entry.DuplicateCount,
	}
	return c.append(ctx, processedTab+"!A:J", [][]any{row})
}

// SaveReviewQueue writes tier-2 items for human review.
func (c *Client) SaveReviewQueue(ctx context.Context, items []domain.ClassifiedItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(items))
	for _, ci := range items {
		rows = append(rows, []any{
			ci.Item.PublishedAt.Format("2006-01-02"),
			ci.Item.SourceName,
			ci.Judgment.Category,
			ci.Item.Title,
			ci.Item.Synopsis,
			formatConfidence(ci.Judgment.Confidence),
			ci.Judgment.Reason,
			ci.Item.URL,
		})
	}
	return c.append(ctx, reviewTab+"!A:H", rows)
}

// SaveRejectedLog records rejected items with their rejection reason.
func (c *Client) SaveRejectedLog(ctx context.Context, items []domain.ClassifiedItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(items))
	for _, ci := range items {
		rows = append(rows, []any{
			ci.Item.PublishedAt.Format("2006-01-02"),
			ci.Item.SourceName,
			ci.Item.Title,
			ci.Judgment.Reason,
			ci.Item.URL,
		})
	}
	return c.append(ctx, rejectedTab+"!A:E", rows)
}

func (c *Client) append(ctx context.Context, valueRange string, rows [][]any) error {
	if c.spreadsheetID == "" || c.accessToken == "" {
		return fmt.Errorf("sheets client misconfigured")
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		c.baseURL, c.spreadsheetID, url.PathEscape(valueRange))

	body, err := json.Marshal(map[string]any{"values": rows})
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sheets error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	c.debug("rows appended", "range", valueRange, "count", len(rows))
	return nil
}

func formatConfidence(confidence float64) string {
	return strconv.FormatFloat(confidence, 'f', 2, 64)
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
