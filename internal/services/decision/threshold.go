package decision

import (
	"churn-retention-engine/internal/models"
)

// Threshold computes the customer-specific decision threshold. The break-
// even formula cost / (cost + clv) is clamped up to the policy floor for
// the customer's CLV tier, so high-value customers are never judged more
// leniently than the business allows, while low-value/high-cost customers
// can still see the formula raise the cutoff above the floor.
func (p Policy) Threshold(clv, retentionCost float64) float64 {
	formula := 1.0
	if retentionCost+clv > 0 {
		formula = retentionCost / (retentionCost + clv)
	}

	floor := p.tierFloor(clv)
	if formula > floor {
		return formula
	}
	return floor
}

// tierFloor walks the descending tier table; bounds are inclusive, so a
// CLV exactly on a boundary takes the higher tier's floor.
func (p Policy) tierFloor(clv float64) float64 {
	for _, tier := range p.ThresholdTiers {
		if clv >= tier.MinCLV {
			return tier.Floor
		}
	}
	return p.ThresholdTiers[len(p.ThresholdTiers)-1].Floor
}

// Decide applies the thresholded decision rule: the customer is Churned
// iff the churn probability reaches the threshold; otherwise the raw model
// label stands.
func Decide(rawLabel models.ChurnLabel, churnProbability, threshold float64) models.ChurnLabel {
	if churnProbability >= threshold {
		return models.ChurnLabelChurned
	}
	if rawLabel == models.ChurnLabelChurned {
		// The model voted Churned but the business threshold disagrees;
		// the customer is treated as staying.
		return models.ChurnLabelStayed
	}
	return rawLabel
}

// RiskLevel buckets a churn probability using the policy cut points.
func (p Policy) RiskLevel(churnProbability float64) models.RiskLevel {
	switch {
	case churnProbability >= p.Risk.Critical:
		return models.RiskLevelCritical
	case churnProbability >= p.Risk.High:
		return models.RiskLevelHigh
	case churnProbability >= p.Risk.Medium:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}
