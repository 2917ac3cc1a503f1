package domain

import "time"

// FullArticle is the clean full-text version of an item.
type FullArticle struct {
	URL     string
	Title   string
	Date    string
	Content string
}

// SourceRef is a related piece of coverage found during research.
type SourceRef struct {
	URL     string
	Title   string
	Content string
	Score   float64
}

// Summary is the synthesized write-up produced for a duplicate group's
// primary item.
type Summary struct {
	Date        string
	Title       string
	Body        string
	Links       []string
	OriginalURL string
}

// ProcessedEntry is the fully enriched record written downstream for one
// duplicate group.
type ProcessedEntry struct {
	Date           string
	Source         string
	Category       string
	Title          string
	Summary        string
	Links          []string
	SourceCount    int
	Confidence     float64
	DuplicateCount int
	OriginalURL    string
}

// ProcessingStatus enumerates pipeline milestones for archived items.
type ProcessingStatus string

const (
	StatusClassified ProcessingStatus = "classified"
	StatusEnriched   ProcessingStatus = "enriched"
	StatusDelivered  ProcessingStatus = "delivered"
)

// ProcessedRecord is the archive row persisted per item for cross-run
// skip checks and audit.
type ProcessedRecord struct {
	Item           Item
	Category       string
	Confidence     float64
	Summary        string
	DuplicateCount int
	Status         ProcessingStatus
	RunID          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
