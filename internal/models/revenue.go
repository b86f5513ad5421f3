// Package models defines the data structures for the churn retention engine.
package models

// Priority ranks how urgently a customer should be worked by the retention
// team, derived from revenue at risk.
type Priority string

const (
	PriorityP1 Priority = "P1 - Critical"
	PriorityP2 Priority = "P2 - High"
	PriorityP3 Priority = "P3 - Medium"
	PriorityP4 Priority = "P4 - Low"
)

// RevenueTier names the revenue-at-risk band a customer falls into.
type RevenueTier string

const (
	RevenueTierHigh     RevenueTier = "High Value"
	RevenueTierMedium   RevenueTier = "Medium Value"
	RevenueTierStandard RevenueTier = "Standard Value"
	RevenueTierLow      RevenueTier = "Low Value"
)

// OfferName identifies one of the fixed retention offer tiers.
type OfferName string

const (
	OfferBasic    OfferName = "basic"
	OfferStandard OfferName = "standard"
	OfferPremium  OfferName = "premium"
	// OfferNoAction is recommended when no tier has a positive net benefit.
	OfferNoAction OfferName = "no action"
)

// OfferQuote is the ROI projection for one retention offer tier.
type OfferQuote struct {
	Name                  OfferName `json:"name"`
	Cost                  float64   `json:"cost"`
	ExpectedLossWithout   float64   `json:"expected_loss_without_action"`
	ExpectedLossWithOffer float64   `json:"expected_loss_with_retention"`
	RevenueSaved          float64   `json:"revenue_saved"`
	NetBenefit            float64   `json:"net_benefit"`
	ROIPercent            float64   `json:"roi_percent"`
}

// RevenueAssessment is the business-side half of an evaluation.
type RevenueAssessment struct {
	CLV              float64      `json:"customer_lifetime_value"`
	SimpleCLV        float64      `json:"simple_clv"`
	RevenueAtRisk    float64      `json:"revenue_at_risk"`
	RevenueTier      RevenueTier  `json:"revenue_tier"`
	Priority         Priority     `json:"priority"`
	Offers           []OfferQuote `json:"offers"`
	RecommendedOffer OfferName    `json:"recommended_offer"`
}
