package decision

import (
	"fmt"
	"strings"

	"churn-retention-engine/internal/models"
)

// FormatCurrency renders an amount as dollars with thousands separators.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return sign + "$" + b.String() + fracPart
}

// ExecutiveSummary renders the evaluation as the plain-text report used by
// business stakeholders.
func ExecutiveSummary(rec *models.CustomerRecord, outcome *models.Outcome) string {
	var b strings.Builder

	b.WriteString("REVENUE IMPACT ANALYSIS\n")
	b.WriteString("=======================\n\n")

	b.WriteString("Customer Value Metrics:\n")
	fmt.Fprintf(&b, "  Customer Lifetime Value: %s\n", FormatCurrency(outcome.Revenue.CLV))
	fmt.Fprintf(&b, "  Revenue at Risk: %s\n", FormatCurrency(outcome.Revenue.RevenueAtRisk))
	fmt.Fprintf(&b, "  Revenue Tier: %s\n", outcome.Revenue.RevenueTier)
	fmt.Fprintf(&b, "  Priority Level: %s\n\n", outcome.Revenue.Priority)

	b.WriteString("Churn Assessment:\n")
	fmt.Fprintf(&b, "  Prediction: %s\n", outcome.Prediction.Label)
	fmt.Fprintf(&b, "  Churn Probability: %.1f%%\n", outcome.Prediction.ChurnProbability*100)
	fmt.Fprintf(&b, "  Decision Threshold: %.1f%%\n", outcome.Prediction.ThresholdUsed*100)
	fmt.Fprintf(&b, "  Risk Level: %s\n", outcome.Prediction.RiskLevel)
	fmt.Fprintf(&b, "  Current Monthly Charge: %s\n", FormatCurrency(rec.MonthlyCharge))
	fmt.Fprintf(&b, "  Customer Tenure: %d months\n", rec.TenureInMonths)
	fmt.Fprintf(&b, "  Total Historical Revenue: %s\n\n", FormatCurrency(rec.TotalRevenue))

	if outcome.Prediction.Category != "" {
		fmt.Fprintf(&b, "Likely Churn Reason: %s\n\n", outcome.Prediction.Category)
	}

	if len(outcome.Prediction.TopFactors) > 0 {
		b.WriteString("Top Churn Factors:\n")
		for _, factor := range outcome.Prediction.TopFactors {
			fmt.Fprintf(&b, "  - %s (%.1f%%)\n", factor.Label, factor.Percent)
		}
		b.WriteString("\n")
	}

	b.WriteString("Retention Recommendation:\n")
	fmt.Fprintf(&b, "  Suggested Offer: %s\n", strings.ToUpper(string(outcome.Revenue.RecommendedOffer)))

	if outcome.Revenue.RecommendedOffer != models.OfferNoAction {
		for _, quote := range outcome.Revenue.Offers {
			if quote.Name != outcome.Revenue.RecommendedOffer {
				continue
			}
			fmt.Fprintf(&b, "  Expected ROI: %.1f%%\n", quote.ROIPercent)
			fmt.Fprintf(&b, "  Investment Required: %s\n", FormatCurrency(quote.Cost))
			fmt.Fprintf(&b, "  Expected Net Benefit: %s\n", FormatCurrency(quote.NetBenefit))
		}
	}

	if len(outcome.Insights) > 0 {
		b.WriteString("\nRisk Signals:\n")
		for _, insight := range outcome.Insights {
			fmt.Fprintf(&b, "  - %s\n", insight)
		}
	}

	if len(outcome.Recommendations) > 0 {
		b.WriteString("\nNext Actions:\n")
		for _, rec := range outcome.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}

	return b.String()
}
