package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryOperations  = "Operations"
	CategoryMarketing   = "Marketing"
	CategoryDevelopment = "Development"
	CategoryEmergency   = "Emergency"
)

var Categories = []string{CategoryOperations, CategoryMarketing, CategoryDevelopment, CategoryEmergency}

var (
	ErrorInvalidPolicyTiers = fmt.Errorf("policy tiers must have ascending maxima, ratios in (0,1] and an unbounded last tier")
)

// PolicyTier selects governance strictness for proposals whose total is at most Max.
// A nil Max means the tier is unbounded.
type PolicyTier struct {
	Max      *decimal.Decimal
	Ratio    decimal.Decimal
	TimeLock time.Duration
}

type Policy struct {
	RequiredSignerRatio decimal.Decimal
	TimeLock            time.Duration
	TimeLockReadyAt     time.Time
}

type PolicyEngine struct {
	tiers []PolicyTier
}

// DefaultPolicyTiers returns the standard 40/60/80 percent table. Every time-lock is
// zero, so proposals are time-lock-eligible as soon as they are created.
func DefaultPolicyTiers() []PolicyTier {
	low := decimal.NewFromInt(1000)
	medium := decimal.NewFromInt(10000)
	return []PolicyTier{
		{Max: &low, Ratio: decimal.RequireFromString("0.4")},
		{Max: &medium, Ratio: decimal.RequireFromString("0.6")},
		{Max: nil, Ratio: decimal.RequireFromString("0.8")},
	}
}

func NewPolicyEngine(tiers []PolicyTier) (*PolicyEngine, error) {
	if len(tiers) == 0 || tiers[len(tiers)-1].Max != nil {
		return nil, ErrorInvalidPolicyTiers
	}
	for i, tier := range tiers {
		if !tier.Ratio.IsPositive() || tier.Ratio.GreaterThan(decimal.NewFromInt(1)) || tier.TimeLock < 0 {
			return nil, ErrorInvalidPolicyTiers
		}
		if i == len(tiers)-1 {
			break
		}
		if tier.Max == nil {
			return nil, ErrorInvalidPolicyTiers
		}
		if i > 0 && !tier.Max.GreaterThan(*tiers[i-1].Max) {
			return nil, ErrorInvalidPolicyTiers
		}
	}
	return &PolicyEngine{tiers: tiers}, nil
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Derive picks the first tier whose maximum covers the proposal total. Ties at a
// boundary go to the lower tier.
func (e *PolicyEngine) Derive(category string, transactions []Transaction, now time.Time) (Policy, error) {
	if !IsValidCategory(category) {
		return Policy{}, NewError(KindInvalidCategory, "invalid category %q", category)
	}

	total := Total(transactions)
	tier := e.tiers[len(e.tiers)-1]
	for _, t := range e.tiers {
		if t.Max == nil || total.LessThanOrEqual(*t.Max) {
			tier = t
			break
		}
	}

	return Policy{
		RequiredSignerRatio: tier.Ratio,
		TimeLock:            tier.TimeLock,
		TimeLockReadyAt:     now.Add(tier.TimeLock),
	}, nil
}
