package decision

import (
	"fmt"

	"churn-retention-engine/internal/models"
)

// BuildInsights derives quick, human-readable risk signals straight from
// the raw record. These complement the model attributions with rules a
// retention agent can verify at a glance.
func BuildInsights(rec *models.CustomerRecord) []string {
	var insights []string

	if models.Contract(models.NormalizeCategory(rec.Contract)) == models.ContractMonthToMonth {
		insights = append(insights, "Month-to-Month contract - no commitment")
	}
	if rec.TenureInMonths < 6 {
		insights = append(insights, fmt.Sprintf("Very short tenure (%d months)", rec.TenureInMonths))
	}
	if rec.TotalRefunds > 0 {
		insights = append(insights, fmt.Sprintf("Has refunds ($%.2f) - dissatisfaction indicator", rec.TotalRefunds))
	}
	if rec.TotalExtraDataCharges > 0 {
		insights = append(insights, fmt.Sprintf("Extra data charges ($%.2f) - unexpected costs", rec.TotalExtraDataCharges))
	}
	if rec.NumberOfReferrals == 0 {
		insights = append(insights, "Zero referrals - not engaged")
	}
	if rec.MonthlyCharge > 80 {
		insights = append(insights, fmt.Sprintf("High monthly charge ($%.2f)", rec.MonthlyCharge))
	}

	return insights
}
