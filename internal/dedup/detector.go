// Package dedup collapses tier-1 items that report the same event into
// ordered groups, each headed by a primary representative.
package dedup

import (
	"context"
	"log/slog"
	"sort"

	"newstriage/internal/domain"
	"newstriage/internal/ports"
)

const (
	// DefaultThreshold gates the oracle's confidence for merging a pair.
	DefaultThreshold = 0.8

	// unrankedPriority sorts sources missing from the priority map last.
	unrankedPriority = 999
)

// Detector asks the equivalence oracle pairwise whether two titles describe
// the same event and partitions the input into duplicate groups.
type Detector struct {
	oracle    ports.EquivalenceOracle
	threshold float64
	priority  map[string]int
	logger    *slog.Logger
}

var _ ports.DuplicateDetector = (*Detector)(nil)

// NewDetector wires the oracle, the merge threshold, and the source
// priority map used for the primary tie-break.
func NewDetector(oracle ports.EquivalenceOracle, threshold float64, priority map[string]int, logger *slog.Logger) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{
		oracle:    oracle,
		threshold: threshold,
		priority:  priority,
		logger:    logger,
	}
}

// Detect partitions items into duplicate groups. Items are scanned in input
// order; each unprocessed item founds a group (the anchor) and absorbs
// every later unprocessed item the oracle matches against it at or above
// the threshold. Matching is anchor-to-candidate only; equivalence is not
// re-verified transitively between absorbed members. The groups partition
// the input: every item appears in exactly one group.
func (d *Detector) Detect(ctx context.Context, items []domain.ClassifiedItem) []domain.DuplicateGroup {
	if len(items) == 0 {
		return nil
	}

	// The marker array is owned by this single pass; an item's processed
	// state must be visible before later scans can skip it.
	processed := make([]bool, len(items))
	groups := make([]domain.DuplicateGroup, 0, len(items))

	for i := range items {
		if processed[i] {
			continue
		}
		processed[i] = true

		members := []domain.ClassifiedItem{items[i]}
		for k := i + 1; k < len(items); k++ {
			if processed[k] {
				continue
			}

			verdict, err := d.compare(ctx, items[i].Item.Title, items[k].Item.Title)
			if err != nil {
				// Fail open: an oracle hiccup degrades deduplication,
				// it never merges or drops items.
				d.warn("equivalence check failed",
					"anchor", items[i].Item.Title,
					"candidate", items[k].Item.Title,
					"error", err)
				continue
			}

			if verdict.SameEvent && verdict.Confidence >= d.threshold {
				members = append(members, items[k])
				processed[k] = true
			}
		}

		d.sortMembers(members)
		groups = append(groups, domain.DuplicateGroup{Members: members})
	}

	return groups
}

func (d *Detector) compare(ctx context.Context, titleA, titleB string) (ports.EquivalenceVerdict, error) {
	if d.oracle == nil {
		// Without an oracle every item stays unique.
		return ports.EquivalenceVerdict{}, nil
	}
	return d.oracle.SameEvent(ctx, titleA, titleB)
}

// sortMembers orders a group by ascending source priority, breaking ties in
// favor of the longer synopsis. The first element becomes the primary.
func (d *Detector) sortMembers(members []domain.ClassifiedItem) {
	sort.SliceStable(members, func(a, b int) bool {
		pa := d.sourcePriority(members[a].Item.Source)
		pb := d.sourcePriority(members[b].Item.Source)
		if pa != pb {
			return pa < pb
		}
		return len(members[a].Item.Synopsis) > len(members[b].Item.Synopsis)
	})
}

func (d *Detector) sourcePriority(source string) int {
	if p, ok := d.priority[source]; ok {
		return p
	}
	return unrankedPriority
}

func (d *Detector) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
