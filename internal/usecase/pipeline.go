package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"newstriage/internal/domain"
	"newstriage/internal/money"
	"newstriage/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ItemSource
	Repository ports.ProcessedRepository
	Classifier ports.Classifier
	Detector   ports.DuplicateDetector
	Reader     ports.ArticleReader
	Researcher ports.Researcher
	Summarizer ports.Summarizer
	Sink       ports.Sink
	Notifier   ports.Notifier
	Language   ports.LanguageDetector
	Logger     *slog.Logger

	// RunLanguage rejects items detected in any other language; empty
	// disables the pre-filter.
	RunLanguage string
	// MaxRelated caps related-source research per group.
	MaxRelated int
}

// Pipeline implements the triage workflow: discover, classify, tier,
// deduplicate, enrich, deliver. It owns no state beyond the current run.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.MaxRelated <= 0 {
		deps.MaxRelated = 10
	}
	return &Pipeline{deps: deps}
}

// RunSummary reports what a single batch pass did.
type RunSummary struct {
	RunID      string
	Discovered int
	Skipped    int
	Tier1      int
	Tier2      int
	Rejected   int
	Groups     int
	Processed  int
	Duration   time.Duration
}

// Run executes one batch pass. One item's failure never aborts the batch:
// enrichment and delivery errors are logged per group and processing
// continues.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (RunSummary, error) {
	started := time.Now()
	summary := RunSummary{RunID: uuid.NewString()}
	logger := p.logger().With("run_id", summary.RunID)

	if p.deps.Source == nil {
		return summary, fmt.Errorf("item source not configured")
	}

	items, err := p.deps.Source.FetchRecent(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("fetch recent items: %w", err)
	}
	summary.Discovered = len(items)

	if len(items) == 0 {
		logger.Info("no items discovered, nothing to do")
		return summary, nil
	}

	items, skipped, err := p.dropAlreadyProcessed(ctx, items)
	if err != nil {
		return summary, fmt.Errorf("load processed archive: %w", err)
	}
	summary.Skipped = skipped

	candidates, prefiltered := p.filterLanguage(items)

	var buckets domain.Buckets
	if p.deps.Classifier != nil {
		buckets = p.deps.Classifier.ClassifyBatch(ctx, candidates)
	} else {
		for _, item := range candidates {
			buckets.Rejected = append(buckets.Rejected, domain.ClassifiedItem{
				Judgment: domain.Judgment{Reason: "Classification error: classifier not configured"},
				Item:     item,
			})
		}
	}
	buckets.Rejected = append(buckets.Rejected, prefiltered...)

	summary.Tier1 = len(buckets.Tier1)
	summary.Tier2 = len(buckets.Tier2)
	summary.Rejected = len(buckets.Rejected)

	var groups []domain.DuplicateGroup
	if p.deps.Detector != nil {
		groups = p.deps.Detector.Detect(ctx, buckets.Tier1)
	} else {
		for _, ci := range buckets.Tier1 {
			groups = append(groups, domain.DuplicateGroup{Members: []domain.ClassifiedItem{ci}})
		}
	}
	summary.Groups = len(groups)

	for i, group := range groups {
		logger.Info("processing group",
			"group", i+1,
			"of", len(groups),
			"title", group.Primary().Item.Title,
			"duplicates", group.Size())

		if err := p.processGroup(ctx, summary.RunID, group); err != nil {
			logger.Error("group processing failed", "title", group.Primary().Item.Title, "error", err)
			continue
		}
		summary.Processed++
	}

	p.deliverReview(ctx, logger, buckets.Tier2)
	p.deliverRejected(ctx, logger, buckets.Rejected)

	summary.Duration = time.Since(started)
	p.notify(ctx, logger, summary, groups)

	logger.Info("run complete",
		"discovered", summary.Discovered,
		"skipped", summary.Skipped,
		"tier1", summary.Tier1,
		"tier2", summary.Tier2,
		"rejected", summary.Rejected,
		"groups", summary.Groups,
		"processed", summary.Processed,
		"duration", summary.Duration)

	return summary, nil
}

func (p *Pipeline) dropAlreadyProcessed(ctx context.Context, items []domain.Item) ([]domain.Item, int, error) {
	if p.deps.Repository == nil || len(items) == 0 {
		return items, 0, nil
	}

	urls := make([]string, len(items))
	for i, item := range items {
		urls[i] = item.URL
	}

	seen, err := p.deps.Repository.AlreadyProcessed(ctx, urls)
	if err != nil {
		return nil, 0, err
	}

	fresh := items[:0]
	skipped := 0
	for _, item := range items {
		if seen[item.URL] {
			skipped++
			continue
		}
		fresh = append(fresh, item)
	}

	return fresh, skipped, nil
}

// filterLanguage rejects items detected in a language other than the run
// language. Rejections join the rejected bucket so the partition over the
// batch stays total.
func (p *Pipeline) filterLanguage(items []domain.Item) ([]domain.Item, []domain.ClassifiedItem) {
	if p.deps.Language == nil || p.deps.RunLanguage == "" {
		return items, nil
	}

	var (
		candidates []domain.Item
		rejected   []domain.ClassifiedItem
	)
	for _, item := range items {
		code := p.deps.Language.DetectISO6391(item.Title + " " + item.Synopsis)
		if code != "" && code != p.deps.RunLanguage {
			rejected = append(rejected, domain.ClassifiedItem{
				Judgment: domain.Judgment{
					Reason: fmt.Sprintf("Language %s outside run language %s", code, p.deps.RunLanguage),
				},
				Item: item,
			})
			continue
		}
		candidates = append(candidates, item)
	}

	return candidates, rejected
}

// processGroup enriches a duplicate group's primary and delivers the
// result. Fetch, research, and summarization degrade independently: a
// failing collaborator falls back to feed-level data instead of dropping
// the group.
func (p *Pipeline) processGroup(ctx context.Context, runID string, group domain.DuplicateGroup) error {
	primary := group.Primary()
	logger := p.logger()

	article := domain.FullArticle{
		URL:     primary.Item.URL,
		Title:   primary.Item.Title,
		Date:    primary.Item.PublishedAt.Format("2006-01-02"),
		Content: primary.Item.Synopsis,
	}
	if p.deps.Reader != nil {
		fetched, err := p.deps.Reader.Fetch(ctx, primary.Item.URL)
		if err != nil {
			logger.Warn("full-text fetch failed, using feed synopsis", "url", primary.Item.URL, "error", err)
		} else {
			article = fetched
		}
	}

	var related []domain.SourceRef
	if p.deps.Researcher != nil {
		found, err := p.deps.Researcher.Research(ctx, primary.Item.Title, p.deps.MaxRelated)
		if err != nil {
			logger.Warn("research failed, continuing without related sources", "title", primary.Item.Title, "error", err)
		} else {
			related = found
		}
	}

	summary := domain.Summary{
		Date:        article.Date,
		Title:       article.Title,
		Body:        article.Content,
		OriginalURL: primary.Item.URL,
	}
	if p.deps.Summarizer != nil {
		generated, err := p.deps.Summarizer.Summarize(ctx, article, related)
		if err != nil {
			logger.Warn("summarization failed, delivering raw content", "title", primary.Item.Title, "error", err)
		} else {
			summary = generated
		}
	}

	entry := buildEntry(group, summary, len(related))
	if p.deps.Sink != nil {
		if err := p.deps.Sink.AppendProcessed(ctx, entry); err != nil {
			return fmt.Errorf("append processed entry: %w", err)
		}
	}

	p.archiveGroup(ctx, runID, group, summary)
	return nil
}

func (p *Pipeline) archiveGroup(ctx context.Context, runID string, group domain.DuplicateGroup, summary domain.Summary) {
	if p.deps.Repository == nil {
		return
	}

	for _, member := range group.Members {
		record := domain.ProcessedRecord{
			Item:           member.Item,
			Category:       member.Judgment.Category,
			Confidence:     member.Judgment.Confidence,
			Summary:        summary.Body,
			DuplicateCount: group.Size(),
			Status:         domain.StatusDelivered,
			RunID:          runID,
		}
		if err := p.deps.Repository.SaveProcessed(ctx, record); err != nil {
			p.logger().Warn("archive write failed", "url", member.Item.URL, "error", err)
		}
	}
}

func buildEntry(group domain.DuplicateGroup, summary domain.Summary, sourceCount int) domain.ProcessedEntry {
	primary := group.Primary()

	date := summary.Date
	if date == "" {
		date = primary.Item.PublishedAt.Format("2006-01-02")
	}
	title := summary.Title
	if title == "" {
		title = primary.Item.Title
	}

	return domain.ProcessedEntry{
		Date:           date,
		Source:         primary.Item.SourceName,
		Category:       primary.Judgment.Category,
		Title:          title,
		Summary:        summary.Body,
		Links:          summary.Links,
		SourceCount:    sourceCount,
		Confidence:     primary.Judgment.Confidence,
		DuplicateCount: group.Size(),
		OriginalURL:    primary.Item.URL,
	}
}

func (p *Pipeline) deliverReview(ctx context.Context, logger *slog.Logger, items []domain.ClassifiedItem) {
	if p.deps.Sink == nil || len(items) == 0 {
		return
	}
	if err := p.deps.Sink.SaveReviewQueue(ctx, items); err != nil {
		logger.Error("review queue write failed", "items", len(items), "error", err)
	}
}

func (p *Pipeline) deliverRejected(ctx context.Context, logger *slog.Logger, items []domain.ClassifiedItem) {
	if p.deps.Sink == nil || len(items) == 0 {
		return
	}
	if err := p.deps.Sink.SaveRejectedLog(ctx, items); err != nil {
		logger.Error("rejected log write failed", "items", len(items), "error", err)
	}
}

func (p *Pipeline) notify(ctx context.Context, logger *slog.Logger, summary RunSummary, groups []domain.DuplicateGroup) {
	if p.deps.Notifier == nil {
		return
	}
	if err := p.deps.Notifier.PublishDigest(ctx, buildDigest(summary, groups)); err != nil {
		logger.Error("digest delivery failed", "error", err)
	}
}

func buildDigest(summary RunSummary, groups []domain.DuplicateGroup) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*News triage run*\n")
	fmt.Fprintf(&b, "Processed: %d | Review: %d | Rejected: %d\n", summary.Processed, summary.Tier2, summary.Rejected)
	if summary.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped (already seen): %d\n", summary.Skipped)
	}

	for _, group := range groups {
		primary := group.Primary()
		line := fmt.Sprintf("\n- %s", primary.Item.Title)
		if amount, ok := money.ExtractAmount(primary.Item.Title + " " + primary.Item.Synopsis); ok {
			line += fmt.Sprintf(" (%s)", money.FormatCompact(amount))
		}
		if group.Size() > 1 {
			line += fmt.Sprintf(" [%d reports]", group.Size())
		}
		b.WriteString(line)
	}

	return b.String()
}

func (p *Pipeline) logger() *slog.Logger {
	if p.deps.Logger != nil {
		return p.deps.Logger
	}
	return slog.Default()
}
