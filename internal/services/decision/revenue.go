package decision

import (
	"math"

	"churn-retention-engine/internal/models"
)

// CLV projects the customer lifetime value from billing history. The
// advanced method blends the historical average monthly revenue with the
// current charge (60/40) over the projected remaining months. With zero
// tenure there is no history to average, so the current charge projects
// alone.
func (p Policy) CLV(monthlyCharge float64, tenureMonths int, totalRevenue float64) float64 {
	remaining := math.Max(0, p.AvgLifespanMonths-float64(tenureMonths))

	if tenureMonths <= 0 {
		return monthlyCharge * remaining
	}

	avgMonthly := totalRevenue / float64(tenureMonths)
	projected := avgMonthly*0.6 + monthlyCharge*0.4
	return projected * remaining
}

// SimpleCLV is the naive projection: current charge times remaining months.
// Reported alongside the advanced figure for comparison.
func (p Policy) SimpleCLV(monthlyCharge float64, tenureMonths int) float64 {
	remaining := math.Max(0, p.AvgLifespanMonths-float64(tenureMonths))
	return monthlyCharge * remaining
}

// RevenueAtRisk is the expected revenue loss: CLV weighted by the churn
// probability.
func RevenueAtRisk(clv, churnProbability float64) float64 {
	return clv * churnProbability
}

// QuoteOffer projects the ROI of one retention offer. The offer is assumed
// to prevent the churn with the policy's success rate.
func (p Policy) QuoteOffer(offer RetentionOffer, clv, churnProbability float64) models.OfferQuote {
	lossWithout := churnProbability * clv
	lossWith := churnProbability * (1 - p.RetentionSuccessRate) * clv
	saved := lossWithout - lossWith
	net := saved - offer.Cost

	roi := 0.0
	if offer.Cost > 0 {
		roi = net / offer.Cost * 100
	}

	return models.OfferQuote{
		Name:                  offer.Name,
		Cost:                  offer.Cost,
		ExpectedLossWithout:   lossWithout,
		ExpectedLossWithOffer: lossWith,
		RevenueSaved:          saved,
		NetBenefit:            net,
		ROIPercent:            roi,
	}
}

// Assess produces the complete revenue assessment for a customer at a
// given churn probability: CLV, revenue at risk, the quote for every offer
// tier, the recommended offer and the work priority.
func (p Policy) Assess(rec *models.CustomerRecord, churnProbability float64) models.RevenueAssessment {
	clv := p.CLV(rec.MonthlyCharge, rec.TenureInMonths, rec.TotalRevenue)
	atRisk := RevenueAtRisk(clv, churnProbability)

	offers := make([]models.OfferQuote, len(p.Offers))
	recommended := models.OfferNoAction
	bestROI := math.Inf(-1)
	for i, offer := range p.Offers {
		quote := p.QuoteOffer(offer, clv, churnProbability)
		offers[i] = quote
		// Only offers that pay for themselves are candidates; with none,
		// the explicit recommendation is no action, not the cheapest tier.
		if quote.NetBenefit > 0 && quote.ROIPercent > bestROI {
			bestROI = quote.ROIPercent
			recommended = quote.Name
		}
	}

	priority, tier := p.priorityFor(atRisk)

	return models.RevenueAssessment{
		CLV:              clv,
		SimpleCLV:        p.SimpleCLV(rec.MonthlyCharge, rec.TenureInMonths),
		RevenueAtRisk:    atRisk,
		RevenueTier:      tier,
		Priority:         priority,
		Offers:           offers,
		RecommendedOffer: recommended,
	}
}

// priorityFor walks the descending priority table; bounds are inclusive.
func (p Policy) priorityFor(revenueAtRisk float64) (models.Priority, models.RevenueTier) {
	for _, tier := range p.PriorityTiers {
		if revenueAtRisk >= tier.MinRevenueAtRisk {
			return tier.Priority, tier.Tier
		}
	}
	last := p.PriorityTiers[len(p.PriorityTiers)-1]
	return last.Priority, last.Tier
}
