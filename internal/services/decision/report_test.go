package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"churn-retention-engine/internal/models"
)

func TestExecutiveSummary_ChurnedCustomer(t *testing.T) {
	rec := mockCustomer(nil)
	outcome := &models.Outcome{
		Prediction: models.PredictionResult{
			Label:            models.ChurnLabelChurned,
			ChurnProbability: 0.8,
			ThresholdUsed:    0.25,
			RiskLevel:        models.RiskLevelCritical,
			Category:         models.CategoryPrice,
			TopFactors: []models.FeatureContribution{
				{Feature: "tenure_in_months", Label: "Tenure (Months)", Percent: 62.5},
			},
		},
		Revenue: models.RevenueAssessment{
			CLV:           2520,
			RevenueAtRisk: 2016,
			RevenueTier:   models.RevenueTierHigh,
			Priority:      models.PriorityP1,
			Offers: []models.OfferQuote{
				{Name: models.OfferBasic, Cost: 25, NetBenefit: 983, ROIPercent: 3932},
			},
			RecommendedOffer: models.OfferBasic,
		},
		Insights:        []string{"Month-to-Month contract - no commitment"},
		Recommendations: []string{"URGENT: Immediate retention intervention required"},
	}

	report := ExecutiveSummary(rec, outcome)

	assert.Contains(t, report, "REVENUE IMPACT ANALYSIS")
	assert.Contains(t, report, "Customer Lifetime Value: $2,520.00")
	assert.Contains(t, report, "Revenue at Risk: $2,016.00")
	assert.Contains(t, report, "Priority Level: P1 - Critical")
	assert.Contains(t, report, "Churn Probability: 80.0%")
	assert.Contains(t, report, "Decision Threshold: 25.0%")
	assert.Contains(t, report, "Likely Churn Reason: Price")
	assert.Contains(t, report, "Tenure (Months) (62.5%)")
	assert.Contains(t, report, "Suggested Offer: BASIC")
	assert.Contains(t, report, "Expected ROI: 3932.0%")
	assert.Contains(t, report, "Month-to-Month contract - no commitment")
	assert.Contains(t, report, "URGENT: Immediate retention intervention required")
}

func TestExecutiveSummary_StayedCustomerOmitsChurnSections(t *testing.T) {
	rec := mockCustomer(nil)
	outcome := &models.Outcome{
		Prediction: models.PredictionResult{
			Label:            models.ChurnLabelStayed,
			ChurnProbability: 0.1,
			ThresholdUsed:    0.25,
			RiskLevel:        models.RiskLevelLow,
		},
		Revenue: models.RevenueAssessment{
			CLV:              2520,
			RevenueAtRisk:    252,
			RevenueTier:      models.RevenueTierStandard,
			Priority:         models.PriorityP3,
			RecommendedOffer: models.OfferNoAction,
		},
		Recommendations: []string{"Monitor customer satisfaction"},
	}

	report := ExecutiveSummary(rec, outcome)

	assert.Contains(t, report, "Prediction: Stayed")
	assert.Contains(t, report, "Suggested Offer: NO ACTION")
	assert.NotContains(t, report, "Likely Churn Reason")
	assert.NotContains(t, report, "Top Churn Factors")
	assert.NotContains(t, report, "Expected ROI")
}

func TestBuildInsights_FlagsKnownRiskSignals(t *testing.T) {
	rec := mockCustomer(map[string]interface{}{
		"tenure_in_months": 3,
		"monthly_charge":   95.0,
	})
	rec.TotalRefunds = 12.34
	rec.TotalExtraDataCharges = 5
	rec.NumberOfReferrals = 0

	insights := BuildInsights(rec)

	assert.Contains(t, insights, "Month-to-Month contract - no commitment")
	assert.Contains(t, insights, "Very short tenure (3 months)")
	assert.Contains(t, insights, "Has refunds ($12.34) - dissatisfaction indicator")
	assert.Contains(t, insights, "Extra data charges ($5.00) - unexpected costs")
	assert.Contains(t, insights, "Zero referrals - not engaged")
	assert.Contains(t, insights, "High monthly charge ($95.00)")
}

func TestBuildInsights_QuietForHealthyCustomer(t *testing.T) {
	rec := mockCustomer(map[string]interface{}{
		"tenure_in_months": 48,
		"total_revenue":    3360.0,
	})
	rec.Contract = "Two Year"

	assert.Empty(t, BuildInsights(rec))
}

func TestCategoryRecommendations_EveryCategoryHasAPlaybook(t *testing.T) {
	for _, category := range models.ValidChurnCategories() {
		recs := CategoryRecommendations(category)
		assert.GreaterOrEqual(t, len(recs), 4, "category %s", category)
		assert.Equal(t, "Proactive follow-up within 24 hours", recs[len(recs)-1])
	}
}

func TestRiskRecommendation(t *testing.T) {
	assert.Equal(t, "Monitor customer satisfaction", RiskRecommendation(false, models.RiskLevelLow))
	assert.Equal(t, "URGENT: Immediate retention intervention required",
		RiskRecommendation(true, models.RiskLevelCritical))
	assert.Equal(t, "Proactive retention campaign recommended",
		RiskRecommendation(true, models.RiskLevelHigh))
}
