package domain

import "time"

// Item is a candidate news item discovered from a configured feed.
// Immutable once discovered.
type Item struct {
	Title       string
	Synopsis    string
	URL         string
	Source      string
	SourceName  string
	Author      string
	PublishedAt time.Time
}

// Judgment is the normalized verdict of the classification judge for one
// item. Every field carries a usable zero value after normalization, even
// when the judge omitted it.
type Judgment struct {
	Relevant   bool
	Category   string
	Tier       int // 1 or 2; 0 when the judge assigned none
	Confidence float64
	Reason     string
	Signals    []string
}

// ClassifiedItem pairs an item with its final judgment.
type ClassifiedItem struct {
	Judgment Judgment
	Item     Item
}

// Buckets partitions a classified batch. Membership is exclusive and
// exhaustive: every classified item lands in exactly one bucket.
type Buckets struct {
	Tier1    []ClassifiedItem
	Tier2    []ClassifiedItem
	Rejected []ClassifiedItem
}

// Total counts items across all three buckets.
func (b Buckets) Total() int {
	return len(b.Tier1) + len(b.Tier2) + len(b.Rejected)
}

// DuplicateGroup is an ordered set of tier-1 items reporting the same event.
// Member 0 is the primary representative.
type DuplicateGroup struct {
	Members []ClassifiedItem
}

// Primary returns the representative member selected by the detector's
// tie-break. Groups are never empty.
func (g DuplicateGroup) Primary() ClassifiedItem {
	return g.Members[0]
}

// Size returns the number of items collapsed into the group.
func (g DuplicateGroup) Size() int {
	return len(g.Members)
}
