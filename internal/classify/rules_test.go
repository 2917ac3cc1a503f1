package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"newstriage/internal/domain"
)

func TestFundingFloorDowngradesSmallRounds(t *testing.T) {
	t.Parallel()

	overlay := DefaultOverlay()
	item := domain.Item{
		Title:    "Startup raises $40 million",
		Synopsis: "Series B round for an infra startup.",
	}
	in := domain.Judgment{
		Relevant:   true,
		Category:   "enterprise_strategy",
		Tier:       1,
		Confidence: 0.8,
		Reason:     "Large funding round",
	}

	got := overlay.Apply(in, item)

	if got.Relevant {
		t.Fatal("expected relevance flipped to false")
	}
	if got.Confidence != 0.5 {
		t.Fatalf("confidence = %v, want 0.5 (0.8 - 0.3)", got.Confidence)
	}
	want := "Large funding round (Funding $40,000,000 below threshold)"
	if got.Reason != want {
		t.Fatalf("reason = %q, want %q", got.Reason, want)
	}

	// The input judgment must be untouched.
	if !in.Relevant || in.Confidence != 0.8 {
		t.Fatalf("input judgment was mutated: %+v", in)
	}
}

func TestFundingFloorConfidenceFloorsAtZero(t *testing.T) {
	t.Parallel()

	overlay := DefaultOverlay()
	got := overlay.Apply(domain.Judgment{
		Relevant:   true,
		Category:   "enterprise_strategy",
		Confidence: 0.2,
	}, domain.Item{Title: "Raised $10M seed"})

	if got.Confidence != 0 {
		t.Fatalf("confidence = %v, want floored at 0", got.Confidence)
	}
}

func TestFundingFloorKeepsLargeRounds(t *testing.T) {
	t.Parallel()

	overlay := DefaultOverlay()
	in := domain.Judgment{
		Relevant:   true,
		Category:   "enterprise_strategy",
		Tier:       1,
		Confidence: 0.9,
		Reason:     "Major raise",
	}

	got := overlay.Apply(in, domain.Item{Title: "Vendor lands $90 million"})

	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("judgment should be untouched at $90M (-want +got):\n%s", diff)
	}
}

func TestFundingFloorExactlyAtFloorPasses(t *testing.T) {
	t.Parallel()

	overlay := DefaultOverlay()
	in := domain.Judgment{Relevant: true, Category: "enterprise_strategy", Confidence: 0.7}

	got := overlay.Apply(in, domain.Item{Title: "Closes $50 million round"})

	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("$50M sits on the floor and must pass (-want +got):\n%s", diff)
	}
}

func TestOverlayIgnoresOtherCategories(t *testing.T) {
	t.Parallel()

	overlay := DefaultOverlay()
	in := domain.Judgment{
		Relevant:   true,
		Category:   "model_release",
		Tier:       1,
		Confidence: 0.75,
		Reason:     "model news",
	}

	got := overlay.Apply(in, domain.Item{Title: "Lab raises $5 million"})

	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("non-matching category must pass unchanged (-want +got):\n%s", diff)
	}
}

func TestOverlayWithoutAmountLeavesJudgment(t *testing.T) {
	t.Parallel()

	overlay := DefaultOverlay()
	in := domain.Judgment{Relevant: true, Category: "enterprise_strategy", Confidence: 0.8}

	got := overlay.Apply(in, domain.Item{Title: "Vendor announces partnership"})

	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("no amount found, judgment must pass unchanged (-want +got):\n%s", diff)
	}
}

func TestOverlayRunsRulesInRegistrationOrder(t *testing.T) {
	t.Parallel()

	appendReason := func(suffix string) Rule {
		return Rule{
			Name: suffix,
			Transform: func(j domain.Judgment, _ domain.Item) domain.Judgment {
				j.Reason += suffix
				return j
			},
		}
	}

	overlay := NewOverlay(appendReason("a"), appendReason("b"), appendReason("c"))
	got := overlay.Apply(domain.Judgment{}, domain.Item{})

	if got.Reason != "abc" {
		t.Fatalf("reason = %q, want rules applied in order", got.Reason)
	}
}
