// Package models defines the data structures for the churn retention engine.
package models

import (
	"time"
)

// Outcome is the full result of evaluating one customer record.
type Outcome struct {
	Prediction      PredictionResult  `json:"prediction"`
	Revenue         RevenueAssessment `json:"revenue"`
	Insights        []string          `json:"insights,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
}

// Evaluation is a persisted evaluation: the customer snapshot plus the
// outcome, as stored in the evaluations table.
type Evaluation struct {
	ID               string         `json:"id" db:"id"`
	BatchID          string         `json:"batch_id,omitempty" db:"batch_id"`
	Customer         CustomerRecord `json:"customer" db:"customer"`
	Outcome          Outcome        `json:"outcome" db:"outcome"`
	Label            ChurnLabel     `json:"label" db:"label"`
	ChurnProbability float64        `json:"churn_probability" db:"churn_probability"`
	RevenueAtRisk    float64        `json:"revenue_at_risk" db:"revenue_at_risk"`
	Priority         Priority       `json:"priority" db:"priority"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
}

// BatchStats summarizes a batch scoring run.
type BatchStats struct {
	BatchID            string            `json:"batch_id"`
	TotalRows          int               `json:"total_rows"`
	Evaluated          int               `json:"evaluated"`
	Failed             int               `json:"failed"`
	Churned            int               `json:"churned"`
	TotalRevenueAtRisk float64           `json:"total_revenue_at_risk"`
	ByRiskLevel        map[RiskLevel]int `json:"by_risk_level"`
}
