package decision

import (
	"fmt"
	"strings"

	"churn-retention-engine/internal/models"
)

// CategoryRecommendations returns the retention playbook for a predicted
// churn category, ending with the follow-up actions common to every
// category.
func CategoryRecommendations(category models.ChurnCategory) []string {
	var recs []string

	switch category {
	case models.CategoryCompetitor:
		recs = []string{
			"Conduct competitive analysis",
			"Offer retention discount or loyalty program",
			"Highlight unique value propositions",
		}
	case models.CategoryDissatisfaction:
		recs = []string{
			"Immediate customer service outreach",
			"Address specific service quality issues",
			"Offer complementary premium services",
		}
	case models.CategoryPrice:
		recs = []string{
			"Review pricing for this customer segment",
			"Consider personalized discount",
			"Bundle services for better value",
		}
	case models.CategoryAttitude:
		recs = []string{
			"Customer service training for staff",
			"Assign dedicated account manager",
			"Apologize and offer goodwill gesture",
		}
	default:
		recs = []string{
			"Conduct exit interview to identify specific reasons",
			"Personalized retention approach",
		}
	}

	recs = append(recs,
		fmt.Sprintf("Address %s concerns specifically", strings.ToLower(string(category))),
		"Proactive follow-up within 24 hours",
	)
	return recs
}

// RiskRecommendation is the one-line action for the thresholded decision.
func RiskRecommendation(churned bool, risk models.RiskLevel) string {
	if !churned {
		return "Monitor customer satisfaction"
	}
	if risk == models.RiskLevelCritical {
		return "URGENT: Immediate retention intervention required"
	}
	return "Proactive retention campaign recommended"
}
