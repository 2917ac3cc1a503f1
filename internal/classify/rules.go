package classify

import (
	"fmt"

	"newstriage/internal/domain"
	"newstriage/internal/money"
)

const (
	categoryEnterpriseStrategy = "enterprise_strategy"

	// fundingFloorUSD is the smallest funding amount that keeps an
	// enterprise_strategy item relevant.
	fundingFloorUSD = 50_000_000

	// fundingPenalty is subtracted from confidence when the rule fires;
	// the result never drops below zero.
	fundingPenalty = 0.3
)

// Rule rewrites a judgment when its predicate matches. Transforms receive a
// copy and return the rewritten value; the original judgment is never
// touched.
type Rule struct {
	Name      string
	Matches   func(j domain.Judgment, item domain.Item) bool
	Transform func(j domain.Judgment, item domain.Item) domain.Judgment
}

// Overlay applies post-judge rules in registration order.
type Overlay struct {
	rules []Rule
}

// NewOverlay registers rules in evaluation order.
func NewOverlay(rules ...Rule) *Overlay {
	return &Overlay{rules: rules}
}

// DefaultOverlay carries the standard rule set.
func DefaultOverlay() *Overlay {
	return NewOverlay(FundingFloorRule())
}

// Apply runs every matching rule against the judgment and returns the
// rewritten result. Pure and deterministic given (judgment, item).
func (o *Overlay) Apply(j domain.Judgment, item domain.Item) domain.Judgment {
	if o == nil {
		return j
	}

	out := j
	for _, rule := range o.rules {
		if rule.Transform == nil {
			continue
		}
		if rule.Matches != nil && !rule.Matches(out, item) {
			continue
		}
		out = rule.Transform(out, item)
	}
	return out
}

// FundingFloorRule downgrades enterprise_strategy items whose reported
// funding amount falls below the floor. Items without a detectable amount
// pass through untouched.
func FundingFloorRule() Rule {
	return Rule{
		Name: "funding-floor",
		Matches: func(j domain.Judgment, _ domain.Item) bool {
			return j.Category == categoryEnterpriseStrategy
		},
		Transform: func(j domain.Judgment, item domain.Item) domain.Judgment {
			amount, ok := money.ExtractAmount(item.Title + " " + item.Synopsis)
			if !ok || amount >= fundingFloorUSD {
				return j
			}

			j.Relevant = false
			j.Confidence = j.Confidence - fundingPenalty
			if j.Confidence < 0 {
				j.Confidence = 0
			}
			j.Reason += fmt.Sprintf(" (Funding %s below threshold)", money.FormatGrouped(amount))
			return j
		},
	}
}
