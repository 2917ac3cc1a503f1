package ports

import (
	"context"
	"time"

	"newstriage/internal/domain"
)

// ItemSource pulls fresh candidate items from upstream feeds.
type ItemSource interface {
	FetchRecent(ctx context.Context, now time.Time) ([]domain.Item, error)
}

// JudgeRequest carries the item fields sent to the classification judge.
type JudgeRequest struct {
	Title         string
	Synopsis      string
	SourceLabel   string
	PublishedDate time.Time
}

// JudgeVerdict mirrors the judge's raw structured response. Pointer fields
// keep omitted values distinguishable from explicit ones; normalization
// into domain.Judgment happens in the classify adapter.
type JudgeVerdict struct {
	Relevant   *bool
	Category   *string
	Tier       *int
	Confidence *float64
	Reason     *string
	Signals    []string
}

// Judge is the external classification capability. Implementations return
// an error on transport failure or an unparseable response body.
type Judge interface {
	Judge(ctx context.Context, req JudgeRequest) (JudgeVerdict, error)
}

// EquivalenceVerdict answers whether two titles describe the same event.
type EquivalenceVerdict struct {
	SameEvent  bool
	Confidence float64
}

// EquivalenceOracle is the external capability consulted pairwise during
// duplicate detection.
type EquivalenceOracle interface {
	SameEvent(ctx context.Context, titleA, titleB string) (EquivalenceVerdict, error)
}

// Classifier judges a batch of items and partitions it into buckets.
type Classifier interface {
	ClassifyBatch(ctx context.Context, items []domain.Item) domain.Buckets
}

// DuplicateDetector folds same-event tier-1 items into ordered groups.
type DuplicateDetector interface {
	Detect(ctx context.Context, items []domain.ClassifiedItem) []domain.DuplicateGroup
}

// ArticleReader fetches the clean full text behind an item URL.
type ArticleReader interface {
	Fetch(ctx context.Context, url string) (domain.FullArticle, error)
}

// Researcher finds related coverage for a headline.
type Researcher interface {
	Research(ctx context.Context, query string, maxResults int) ([]domain.SourceRef, error)
}

// Summarizer synthesizes the full article and related sources into a
// formatted write-up.
type Summarizer interface {
	Summarize(ctx context.Context, article domain.FullArticle, related []domain.SourceRef) (domain.Summary, error)
}

// Sink receives the three run outputs for downstream consumption.
type Sink interface {
	AppendProcessed(ctx context.Context, entry domain.ProcessedEntry) error
	SaveReviewQueue(ctx context.Context, items []domain.ClassifiedItem) error
	SaveRejectedLog(ctx context.Context, items []domain.ClassifiedItem) error
}

// ProcessedRepository archives delivered items for cross-run skip checks.
type ProcessedRepository interface {
	AlreadyProcessed(ctx context.Context, urls []string) (map[string]bool, error)
	SaveProcessed(ctx context.Context, record domain.ProcessedRecord) error
}

// Notifier streams run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// LanguageDetector tags text with an ISO 639-1 language code, or "" when
// detection is inconclusive.
type LanguageDetector interface {
	DetectISO6391(text string) string
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
