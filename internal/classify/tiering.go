package classify

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"newstriage/internal/domain"
	"newstriage/internal/ports"
)

const (
	// tier1MinConfidence gates items into the auto-process bucket.
	tier1MinConfidence = 0.7
	// tier2MinConfidence gates items into the human-review bucket.
	tier2MinConfidence = 0.6
)

// Service judges every item in a batch and partitions the results.
type Service struct {
	adapter *Adapter
	overlay *Overlay
	workers int
	logger  *slog.Logger
}

var _ ports.Classifier = (*Service)(nil)

// NewService wires the adapter and overlay. workers caps concurrent judge
// calls; values below 1 force strictly sequential classification.
func NewService(adapter *Adapter, overlay *Overlay, workers int, logger *slog.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		adapter: adapter,
		overlay: overlay,
		workers: workers,
		logger:  logger,
	}
}

// ClassifyBatch judges all items and buckets each one. The partition is
// total: every input lands in exactly one bucket, failed judge calls
// included. Judge calls for distinct items are independent, so they fan out
// under the worker cap; results are reassembled in input order to keep
// bucket ordering deterministic.
func (s *Service) ClassifyBatch(ctx context.Context, items []domain.Item) domain.Buckets {
	classified := make([]domain.ClassifiedItem, len(items))

	group := new(errgroup.Group)
	group.SetLimit(s.workers)
	for i, item := range items {
		i, item := i, item
		group.Go(func() error {
			judgment := s.adapter.Classify(ctx, item)
			judgment = s.overlay.Apply(judgment, item)
			classified[i] = domain.ClassifiedItem{Judgment: judgment, Item: item}
			return nil
		})
	}
	// Workers never fail; judge errors already became sentinel judgments.
	_ = group.Wait()

	var buckets domain.Buckets
	for _, ci := range classified {
		switch assign(ci.Judgment) {
		case bucketTier1:
			buckets.Tier1 = append(buckets.Tier1, ci)
		case bucketTier2:
			buckets.Tier2 = append(buckets.Tier2, ci)
		default:
			buckets.Rejected = append(buckets.Rejected, ci)
		}
	}

	if s.logger != nil {
		s.logger.Info("batch classified",
			"items", len(items),
			"tier1", len(buckets.Tier1),
			"tier2", len(buckets.Tier2),
			"rejected", len(buckets.Rejected))
	}

	return buckets
}

type bucketKind int

const (
	bucketRejected bucketKind = iota
	bucketTier1
	bucketTier2
)

// assign is the four-branch tiering rule, evaluated in order.
func assign(j domain.Judgment) bucketKind {
	switch {
	case !j.Relevant:
		return bucketRejected
	case j.Tier == 1 && j.Confidence >= tier1MinConfidence:
		return bucketTier1
	case j.Tier == 2 && j.Confidence >= tier2MinConfidence:
		return bucketTier2
	default:
		return bucketRejected
	}
}
