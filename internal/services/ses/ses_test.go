package ses

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churn-retention-engine/internal/models"
)

func alertOutcome(label models.ChurnLabel, priority models.Priority) *models.Outcome {
	return &models.Outcome{
		Prediction: models.PredictionResult{
			Label:            label,
			ChurnProbability: 0.82,
			RiskLevel:        models.RiskLevelCritical,
			Category:         models.CategoryPrice,
		},
		Revenue: models.RevenueAssessment{
			CLV:              2520,
			RevenueAtRisk:    2066.4,
			Priority:         priority,
			RecommendedOffer: models.OfferBasic,
		},
		Recommendations: []string{"Review pricing for this customer segment"},
	}
}

func TestShouldAlert_ChurnedHighPriorityOnly(t *testing.T) {
	assert.True(t, ShouldAlert(alertOutcome(models.ChurnLabelChurned, models.PriorityP1)))
	assert.True(t, ShouldAlert(alertOutcome(models.ChurnLabelChurned, models.PriorityP2)))
	assert.False(t, ShouldAlert(alertOutcome(models.ChurnLabelChurned, models.PriorityP3)))
	assert.False(t, ShouldAlert(alertOutcome(models.ChurnLabelChurned, models.PriorityP4)))
	assert.False(t, ShouldAlert(alertOutcome(models.ChurnLabelStayed, models.PriorityP1)))
}

func TestAlertTemplate_RendersOutcome(t *testing.T) {
	outcome := alertOutcome(models.ChurnLabelChurned, models.PriorityP1)
	data := alertData{
		Priority:        outcome.Revenue.Priority,
		Label:           outcome.Prediction.Label,
		Probability:     outcome.Prediction.ChurnProbability * 100,
		RiskLevel:       outcome.Prediction.RiskLevel,
		CLV:             "$2,520.00",
		RevenueAtRisk:   "$2,066.40",
		Offer:           outcome.Revenue.RecommendedOffer,
		Category:        outcome.Prediction.Category,
		Recommendations: outcome.Recommendations,
	}

	var body bytes.Buffer
	require.NoError(t, alertTemplate.Execute(&body, data))

	html := body.String()
	assert.Contains(t, html, "P1 - Critical")
	assert.Contains(t, html, "82.0")
	assert.Contains(t, html, "$2,066.40")
	assert.Contains(t, html, "Price")
	assert.Contains(t, html, "Review pricing for this customer segment")
}
