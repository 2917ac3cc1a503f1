// Package classify turns raw items into tiered judgments: an adapter
// normalizes the external judge's verdicts, an overlay applies deterministic
// rule overrides, and the tiering service partitions the batch.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"newstriage/internal/domain"
	"newstriage/internal/ports"
)

// Adapter shields the pipeline from malformed or partial judge responses.
type Adapter struct {
	judge  ports.Judge
	logger *slog.Logger
}

// NewAdapter wires the external judge capability.
func NewAdapter(judge ports.Judge, logger *slog.Logger) *Adapter {
	return &Adapter{judge: judge, logger: logger}
}

// Classify asks the judge about one item and returns a normalized judgment.
// Failures never propagate: transport errors and unparseable responses
// produce a sentinel judgment that rejects the item, so a single bad call
// cannot abort the batch. No retry happens at this layer.
func (a *Adapter) Classify(ctx context.Context, item domain.Item) domain.Judgment {
	if a == nil || a.judge == nil {
		return errorJudgment(fmt.Errorf("judge not configured"))
	}

	verdict, err := a.judge.Judge(ctx, ports.JudgeRequest{
		Title:         item.Title,
		Synopsis:      item.Synopsis,
		SourceLabel:   sourceLabel(item),
		PublishedDate: item.PublishedAt,
	})
	if err != nil {
		a.warn("judge call failed", "title", item.Title, "error", err)
		return errorJudgment(err)
	}

	return normalize(verdict)
}

// normalize extracts every field with an explicit default. Partial or extra
// fields never cause a hard failure; tiers outside {1,2} are dropped and
// confidence is clamped into [0,1].
func normalize(v ports.JudgeVerdict) domain.Judgment {
	var j domain.Judgment

	if v.Relevant != nil {
		j.Relevant = *v.Relevant
	}
	if v.Category != nil {
		j.Category = *v.Category
	}
	if v.Tier != nil && (*v.Tier == 1 || *v.Tier == 2) {
		j.Tier = *v.Tier
	}
	if v.Confidence != nil {
		j.Confidence = clamp01(*v.Confidence)
	}
	if v.Reason != nil {
		j.Reason = *v.Reason
	}
	j.Signals = v.Signals

	return j
}

func errorJudgment(cause error) domain.Judgment {
	return domain.Judgment{
		Reason: fmt.Sprintf("Classification error: %v", cause),
	}
}

func sourceLabel(item domain.Item) string {
	if item.SourceName != "" {
		return item.SourceName
	}
	return item.Source
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (a *Adapter) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
