// Package decision implements the business decision layer: per-customer
// threshold optimization, revenue and ROI modeling, and the evaluation
// pipeline that ties the encoder and predictor together.
package decision

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"churn-retention-engine/internal/models"
)

// ThresholdTier maps a CLV lower bound to the minimum decision threshold
// for customers at or above that value. Bounds are inclusive.
type ThresholdTier struct {
	MinCLV float64 `yaml:"min_clv"`
	Floor  float64 `yaml:"floor"`
}

// RiskCutoffs are the probability cut points for risk levels.
type RiskCutoffs struct {
	Critical float64 `yaml:"critical"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
}

// PriorityTier maps a revenue-at-risk lower bound to a work priority and
// revenue tier name. Bounds are inclusive.
type PriorityTier struct {
	MinRevenueAtRisk float64            `yaml:"min_revenue_at_risk"`
	Priority         models.Priority    `yaml:"priority"`
	Tier             models.RevenueTier `yaml:"tier"`
}

// RetentionOffer is one of the fixed offer tiers priced by the business.
type RetentionOffer struct {
	Name models.OfferName `yaml:"name"`
	Cost float64          `yaml:"cost"`
}

// Policy carries every tunable business constant of the decision layer.
// The defaults are the documented production values; a YAML policy file
// can override them.
type Policy struct {
	// ThresholdTiers in descending MinCLV order; first match wins. The
	// last tier must have MinCLV 0 so every CLV lands somewhere.
	ThresholdTiers []ThresholdTier `yaml:"threshold_tiers"`

	// RetentionCost is the fixed per-customer cost used by the threshold
	// formula cost / (cost + clv).
	RetentionCost float64 `yaml:"retention_cost"`

	// AvgLifespanMonths is the projected average customer lifespan.
	AvgLifespanMonths float64 `yaml:"avg_lifespan_months"`

	// RetentionSuccessRate is the assumed probability that a retention
	// offer prevents the churn.
	RetentionSuccessRate float64 `yaml:"retention_success_rate"`

	Risk RiskCutoffs `yaml:"risk"`

	// PriorityTiers in descending MinRevenueAtRisk order; first match wins.
	PriorityTiers []PriorityTier `yaml:"priority_tiers"`

	Offers []RetentionOffer `yaml:"offers"`
}

// DefaultPolicy returns the documented production policy tables.
func DefaultPolicy() Policy {
	return Policy{
		ThresholdTiers: []ThresholdTier{
			{MinCLV: 2000, Floor: 0.25},
			{MinCLV: 1000, Floor: 0.30},
			{MinCLV: 500, Floor: 0.35},
			{MinCLV: 200, Floor: 0.40},
			{MinCLV: 0, Floor: 0.45},
		},
		RetentionCost:        50,
		AvgLifespanMonths:    60,
		RetentionSuccessRate: 0.5,
		Risk: RiskCutoffs{
			Critical: 0.75,
			High:     0.50,
			Medium:   0.30,
		},
		PriorityTiers: []PriorityTier{
			{MinRevenueAtRisk: 1000, Priority: models.PriorityP1, Tier: models.RevenueTierHigh},
			{MinRevenueAtRisk: 500, Priority: models.PriorityP2, Tier: models.RevenueTierMedium},
			{MinRevenueAtRisk: 200, Priority: models.PriorityP3, Tier: models.RevenueTierStandard},
			{MinRevenueAtRisk: 0, Priority: models.PriorityP4, Tier: models.RevenueTierLow},
		},
		Offers: []RetentionOffer{
			{Name: models.OfferBasic, Cost: 25},
			{Name: models.OfferStandard, Cost: 50},
			{Name: models.OfferPremium, Cost: 100},
		},
	}
}

// LoadPolicy returns the default policy overlaid with a YAML file when one
// is configured. An empty path returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if err := policy.Validate(); err != nil {
		return policy, fmt.Errorf("invalid policy file %s: %w", path, err)
	}
	return policy, nil
}

// Validate checks the policy tables keep their required shape: tier bounds
// strictly descending, floors non-decreasing as CLV drops, all thresholds
// and rates inside (0,1).
func (p Policy) Validate() error {
	if len(p.ThresholdTiers) == 0 {
		return fmt.Errorf("threshold_tiers is empty")
	}
	for i, tier := range p.ThresholdTiers {
		if tier.Floor <= 0 || tier.Floor >= 1 {
			return fmt.Errorf("threshold floor %v for tier %d outside (0,1)", tier.Floor, i)
		}
		if i > 0 {
			prev := p.ThresholdTiers[i-1]
			if tier.MinCLV >= prev.MinCLV {
				return fmt.Errorf("threshold tiers not in descending CLV order at index %d", i)
			}
			if tier.Floor < prev.Floor {
				return fmt.Errorf("threshold floor decreases as CLV drops at index %d", i)
			}
		}
	}
	if p.ThresholdTiers[len(p.ThresholdTiers)-1].MinCLV != 0 {
		return fmt.Errorf("last threshold tier must cover CLV down to 0")
	}

	if p.RetentionCost <= 0 {
		return fmt.Errorf("retention_cost must be positive")
	}
	if p.AvgLifespanMonths <= 0 {
		return fmt.Errorf("avg_lifespan_months must be positive")
	}
	if p.RetentionSuccessRate <= 0 || p.RetentionSuccessRate > 1 {
		return fmt.Errorf("retention_success_rate must be in (0,1]")
	}

	if !(p.Risk.Critical > p.Risk.High && p.Risk.High > p.Risk.Medium && p.Risk.Medium > 0) {
		return fmt.Errorf("risk cutoffs must satisfy critical > high > medium > 0")
	}

	if len(p.PriorityTiers) == 0 {
		return fmt.Errorf("priority_tiers is empty")
	}
	for i := 1; i < len(p.PriorityTiers); i++ {
		if p.PriorityTiers[i].MinRevenueAtRisk >= p.PriorityTiers[i-1].MinRevenueAtRisk {
			return fmt.Errorf("priority tiers not in descending order at index %d", i)
		}
	}
	if p.PriorityTiers[len(p.PriorityTiers)-1].MinRevenueAtRisk != 0 {
		return fmt.Errorf("last priority tier must cover revenue at risk down to 0")
	}

	if len(p.Offers) == 0 {
		return fmt.Errorf("offers is empty")
	}
	for _, offer := range p.Offers {
		if offer.Cost <= 0 {
			return fmt.Errorf("offer %q has non-positive cost", offer.Name)
		}
	}

	return nil
}
