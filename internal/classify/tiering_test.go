package classify

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"newstriage/internal/domain"
	"newstriage/internal/ports"
)

// scriptedJudge returns a canned verdict per item title.
type scriptedJudge struct {
	verdicts map[string]ports.JudgeVerdict
	errs     map[string]error
}

func (s *scriptedJudge) Judge(_ context.Context, req ports.JudgeRequest) (ports.JudgeVerdict, error) {
	if err, ok := s.errs[req.Title]; ok {
		return ports.JudgeVerdict{}, err
	}
	return s.verdicts[req.Title], nil
}

func verdict(relevant bool, tier int, confidence float64) ports.JudgeVerdict {
	return ports.JudgeVerdict{
		Relevant:   &relevant,
		Tier:       &tier,
		Confidence: &confidence,
	}
}

func TestAssignFourBranchRule(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		j    domain.Judgment
		want bucketKind
	}{
		{"irrelevant", domain.Judgment{Relevant: false, Tier: 1, Confidence: 0.99}, bucketRejected},
		{"tier1 at threshold", domain.Judgment{Relevant: true, Tier: 1, Confidence: 0.70}, bucketTier1},
		{"tier1 below threshold", domain.Judgment{Relevant: true, Tier: 1, Confidence: 0.69}, bucketRejected},
		{"tier2 at threshold", domain.Judgment{Relevant: true, Tier: 2, Confidence: 0.60}, bucketTier2},
		{"tier2 below threshold", domain.Judgment{Relevant: true, Tier: 2, Confidence: 0.59}, bucketRejected},
		{"relevant without tier", domain.Judgment{Relevant: true, Confidence: 0.95}, bucketRejected},
		{"tier2 with tier1 confidence", domain.Judgment{Relevant: true, Tier: 2, Confidence: 0.95}, bucketTier2},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := assign(tc.j); got != tc.want {
				t.Fatalf("assign(%+v) = %d, want %d", tc.j, got, tc.want)
			}
		})
	}
}

func TestClassifyBatchPartitionsBatch(t *testing.T) {
	t.Parallel()

	judge := &scriptedJudge{
		verdicts: map[string]ports.JudgeVerdict{
			"a": verdict(true, 1, 0.9),
			"b": verdict(true, 2, 0.65),
			"c": verdict(false, 0, 0.2),
		},
		errs: map[string]error{
			"d": errors.New("boom"),
		},
	}
	service := NewService(NewAdapter(judge, nil), DefaultOverlay(), 1, nil)

	items := []domain.Item{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}}
	buckets := service.ClassifyBatch(context.Background(), items)

	if len(buckets.Tier1) != 1 || buckets.Tier1[0].Item.Title != "a" {
		t.Fatalf("tier1 = %+v", buckets.Tier1)
	}
	if len(buckets.Tier2) != 1 || buckets.Tier2[0].Item.Title != "b" {
		t.Fatalf("tier2 = %+v", buckets.Tier2)
	}
	if len(buckets.Rejected) != 2 {
		t.Fatalf("rejected = %+v", buckets.Rejected)
	}
	if buckets.Total() != len(items) {
		t.Fatalf("partition not total: %d items in buckets, %d in input", buckets.Total(), len(items))
	}
}

func TestClassifyBatchPartitionTotalityProperty(t *testing.T) {
	t.Parallel()

	// Random judgment fixtures: whatever the judge answers, every item must
	// land in exactly one bucket.
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(20) + 1
		judge := &scriptedJudge{
			verdicts: map[string]ports.JudgeVerdict{},
			errs:     map[string]error{},
		}

		items := make([]domain.Item, n)
		for i := range items {
			title := fmt.Sprintf("item-%d-%d", trial, i)
			items[i] = domain.Item{Title: title}

			switch rng.Intn(4) {
			case 0:
				judge.errs[title] = errors.New("down")
			default:
				judge.verdicts[title] = verdict(rng.Intn(2) == 0, rng.Intn(4), rng.Float64())
			}
		}

		service := NewService(NewAdapter(judge, nil), DefaultOverlay(), 4, nil)
		buckets := service.ClassifyBatch(context.Background(), items)

		if buckets.Total() != n {
			t.Fatalf("trial %d: |tier1|+|tier2|+|rejected| = %d, want %d", trial, buckets.Total(), n)
		}

		seen := map[string]int{}
		for _, ci := range buckets.Tier1 {
			seen[ci.Item.Title]++
		}
		for _, ci := range buckets.Tier2 {
			seen[ci.Item.Title]++
		}
		for _, ci := range buckets.Rejected {
			seen[ci.Item.Title]++
		}
		for _, item := range items {
			if seen[item.Title] != 1 {
				t.Fatalf("trial %d: item %q appears %d times", trial, item.Title, seen[item.Title])
			}
		}
	}
}

func TestClassifyBatchKeepsInputOrderWithinBuckets(t *testing.T) {
	t.Parallel()

	judge := &scriptedJudge{verdicts: map[string]ports.JudgeVerdict{
		"first":  verdict(true, 1, 0.8),
		"second": verdict(false, 0, 0),
		"third":  verdict(true, 1, 0.75),
		"fourth": verdict(true, 1, 0.99),
	}}
	// Fan out on purpose: reassembly must restore input order.
	service := NewService(NewAdapter(judge, nil), DefaultOverlay(), 4, nil)

	items := []domain.Item{{Title: "first"}, {Title: "second"}, {Title: "third"}, {Title: "fourth"}}
	buckets := service.ClassifyBatch(context.Background(), items)

	want := []string{"first", "third", "fourth"}
	if len(buckets.Tier1) != len(want) {
		t.Fatalf("tier1 size = %d, want %d", len(buckets.Tier1), len(want))
	}
	for i, title := range want {
		if buckets.Tier1[i].Item.Title != title {
			t.Fatalf("tier1[%d] = %q, want %q", i, buckets.Tier1[i].Item.Title, title)
		}
	}
}

func TestClassifyBatchAppliesOverlay(t *testing.T) {
	t.Parallel()

	relevant, tier, confidence := true, 1, 0.8
	category := "enterprise_strategy"
	judge := &scriptedJudge{verdicts: map[string]ports.JudgeVerdict{
		"Startup raises $40 million": {
			Relevant:   &relevant,
			Category:   &category,
			Tier:       &tier,
			Confidence: &confidence,
		},
	}}
	service := NewService(NewAdapter(judge, nil), DefaultOverlay(), 1, nil)

	buckets := service.ClassifyBatch(context.Background(), []domain.Item{
		{Title: "Startup raises $40 million"},
	})

	if len(buckets.Rejected) != 1 {
		t.Fatalf("expected funding rule to reject the item, buckets: %+v", buckets)
	}
}
