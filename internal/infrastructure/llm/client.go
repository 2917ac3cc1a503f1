// Package llm talks to an OpenAI-compatible chat-completions endpoint and
// implements the judge, equivalence-oracle, and summarizer capabilities.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"newstriage/internal/config"
	"newstriage/internal/ports"
)

const (
	judgeTemperature   = 0.1
	judgeMaxTokens     = 500
	summaryTemperature = 0.3
	summaryMaxTokens   = 2000
)

// Client is a reusable chat-completions client.
type Client struct {
	endpoint     string
	apiKey       string
	judgeModel   string
	summaryModel string
	systemPrompt string
	httpClient   *http.Client
	logger       *slog.Logger
}

var (
	_ ports.Judge             = (*Client)(nil)
	_ ports.EquivalenceOracle = (*Client)(nil)
	_ ports.Summarizer        = (*Client)(nil)
)

// NewClient builds a client from configuration.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		judgeModel:   cfg.JudgeModel,
		summaryModel: cfg.SummaryModel,
		systemPrompt: cfg.SystemPrompt,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		logger:       logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// judgeReply mirrors the judge's JSON answer; pointer fields keep omitted
// values distinguishable.
type judgeReply struct {
	Relevant   *bool    `json:"relevant"`
	Category   *string  `json:"category"`
	Tier       *int     `json:"tier"`
	Confidence *float64 `json:"confidence"`
	Reason     *string  `json:"reason"`
	KeySignals []string `json:"key_signals"`
}

// Judge classifies one item. Transport failures and unparseable bodies
// surface as errors; the classify adapter converts them into sentinel
// judgments.
func (c *Client) Judge(ctx context.Context, req ports.JudgeRequest) (ports.JudgeVerdict, error) {
	prompt := judgePrompt(req)

	content, err := c.completeJSON(ctx, c.judgeModel, prompt, judgeTemperature, judgeMaxTokens)
	if err != nil {
		return ports.JudgeVerdict{}, err
	}

	var reply judgeReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return ports.JudgeVerdict{}, fmt.Errorf("parse judge reply: %w", err)
	}

	return ports.JudgeVerdict{
		Relevant:   reply.Relevant,
		Category:   reply.Category,
		Tier:       reply.Tier,
		Confidence: reply.Confidence,
		Reason:     reply.Reason,
		Signals:    reply.KeySignals,
	}, nil
}

type equivalenceReply struct {
	SameEvent  bool    `json:"same_event"`
	Confidence float64 `json:"confidence"`
}

// SameEvent asks whether two headlines describe the same event.
func (c *Client) SameEvent(ctx context.Context, titleA, titleB string) (ports.EquivalenceVerdict, error) {
	prompt := fmt.Sprintf(`Do these two headlines describe the same news event?

Headline A: %s
Headline B: %s

Respond with JSON: {"same_event": true/false, "confidence": 0.0-1.0}`, titleA, titleB)

	content, err := c.completeJSON(ctx, c.judgeModel, prompt, judgeTemperature, judgeMaxTokens)
	if err != nil {
		return ports.EquivalenceVerdict{}, err
	}

	var reply equivalenceReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return ports.EquivalenceVerdict{}, fmt.Errorf("parse equivalence reply: %w", err)
	}

	return ports.EquivalenceVerdict{
		SameEvent:  reply.SameEvent,
		Confidence: reply.Confidence,
	}, nil
}

func judgePrompt(req ports.JudgeRequest) string {
	return fmt.Sprintf(`Classify this news item for an enterprise AI intelligence feed.

Title: %s
Summary: %s
Source: %s
Published: %s

Respond with JSON containing:
  "relevant": whether enterprise AI decision makers should read this,
  "category": one of model_release, enterprise_strategy, regulation, research, infrastructure,
  "tier": 1 for auto-process, 2 for human review,
  "confidence": 0.0-1.0,
  "reason": one sentence,
  "key_signals": list of short phrases that drove the decision`,
		req.Title, req.Synopsis, req.SourceLabel, req.PublishedDate.Format("2006-01-02"))
}

// completeJSON issues a chat call with JSON response format and returns the
// first choice's content.
func (c *Client) completeJSON(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error) {
	return c.complete(ctx, chatRequest{
		Model:          model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
}

func (c *Client) complete(ctx context.Context, payload chatRequest) (string, error) {
	if c.apiKey == "" || c.endpoint == "" {
		return "", fmt.Errorf("llm client misconfigured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
