// Package models defines the data structures for the churn retention engine.
package models

// ChurnLabel is one of the classifier's output classes.
type ChurnLabel string

const (
	ChurnLabelChurned ChurnLabel = "Churned"
	ChurnLabelStayed  ChurnLabel = "Stayed"
	ChurnLabelJoined  ChurnLabel = "Joined"
)

// RiskLevel buckets the churn probability for display and triage.
type RiskLevel string

const (
	RiskLevelCritical RiskLevel = "Critical"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelLow      RiskLevel = "Low"
)

// ChurnCategory is the root-cause class predicted for churned customers.
type ChurnCategory string

const (
	CategoryCompetitor      ChurnCategory = "Competitor"
	CategoryDissatisfaction ChurnCategory = "Dissatisfaction"
	CategoryPrice           ChurnCategory = "Price"
	CategoryAttitude        ChurnCategory = "Attitude"
	CategoryOther           ChurnCategory = "Other"
)

// ValidChurnCategories returns the fixed category class set.
func ValidChurnCategories() []ChurnCategory {
	return []ChurnCategory{
		CategoryCompetitor,
		CategoryDissatisfaction,
		CategoryPrice,
		CategoryAttitude,
		CategoryOther,
	}
}

// FeatureContribution is one entry of the churn explanation: a feature
// pushing the prediction toward the Churned class, expressed as a share of
// the total positive attribution.
type FeatureContribution struct {
	Feature string  `json:"feature"`
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// PredictionResult is the classifier-side half of an evaluation.
type PredictionResult struct {
	Label            ChurnLabel            `json:"label"`
	ChurnProbability float64               `json:"churn_probability"`
	ThresholdUsed    float64               `json:"threshold_used"`
	RiskLevel        RiskLevel             `json:"risk_level"`
	Category         ChurnCategory         `json:"category,omitempty"`
	TopFactors       []FeatureContribution `json:"top_factors,omitempty"`
	// Probabilities holds the full class distribution keyed by label.
	Probabilities map[ChurnLabel]float64 `json:"probabilities"`
}

// Churned reports whether the thresholded decision is Churned.
func (p *PredictionResult) Churned() bool {
	return p.Label == ChurnLabelChurned
}
