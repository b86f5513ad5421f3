package decision

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"churn-retention-engine/internal/models"
	"churn-retention-engine/internal/services/encoder"
	"churn-retention-engine/internal/services/predictor"
)

// Engine is the evaluation pipeline: encode, predict, threshold, assess,
// categorize, explain. Artifacts and policy are explicit immutable fields;
// the engine holds no per-request state, so one instance serves all
// requests concurrently.
type Engine struct {
	bundle          *predictor.Bundle
	churnEncoder    *encoder.Encoder
	categoryEncoder *encoder.Encoder
	policy          Policy
	logger          *zap.Logger
}

// NewEngine wires an engine from a loaded artifact bundle and a validated
// policy.
func NewEngine(bundle *predictor.Bundle, policy Policy, logger *zap.Logger) (*Engine, error) {
	if bundle == nil {
		return nil, fmt.Errorf("artifact bundle is nil: %w", models.ErrMissingArtifact)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	churnEnc, err := encoder.NewEncoder(bundle.ChurnSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to build churn encoder: %w", err)
	}

	engine := &Engine{
		bundle:       bundle,
		churnEncoder: churnEnc,
		policy:       policy,
		logger:       logger,
	}

	if bundle.HasCategoryModel() {
		catEnc, err := encoder.NewEncoder(bundle.CategorySpec)
		if err != nil {
			return nil, fmt.Errorf("failed to build category encoder: %w", err)
		}
		engine.categoryEncoder = catEnc
	}

	return engine, nil
}

// Policy returns the engine's policy tables.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Evaluate runs one customer record through the full pipeline. It is
// deterministic given identical input and artifacts, returns no partial
// results, and mutates nothing.
func (e *Engine) Evaluate(ctx context.Context, rec *models.CustomerRecord) (*models.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := models.ValidateCustomerRecord(rec); err != nil {
		return nil, err
	}

	// Stage 1: encode. Unknown nominal levels degrade to zero columns and
	// are surfaced as warnings, not failures.
	vec, encWarnings, err := e.churnEncoder.Encode(rec)
	if err != nil {
		return nil, err
	}
	warnings := make([]string, 0, len(encWarnings))
	for _, w := range encWarnings {
		warnings = append(warnings, w.String())
		e.logger.Warn("unknown category ignored",
			zap.String("field", w.Field),
			zap.String("value", w.Value),
		)
	}

	// Stage 2: classify.
	rawLabel, probs, err := e.bundle.ChurnForest.Predict(vec.Values)
	if err != nil {
		return nil, err
	}
	churnIdx := e.bundle.ChurnForest.ClassIndex(string(models.ChurnLabelChurned))
	pChurn := probs[churnIdx]
	if err := checkProbability("churn prediction", "churn_probability", pChurn); err != nil {
		return nil, err
	}

	// Stage 3: revenue assessment. CLV feeds the threshold, so it comes
	// before the decision.
	revenue := e.policy.Assess(rec, pChurn)
	if err := checkCurrency("revenue model", "clv", revenue.CLV); err != nil {
		return nil, err
	}
	if err := checkCurrency("revenue model", "revenue_at_risk", revenue.RevenueAtRisk); err != nil {
		return nil, err
	}

	// Stage 4: thresholded decision.
	threshold := e.policy.Threshold(revenue.CLV, e.policy.RetentionCost)
	if err := checkProbability("threshold optimizer", "threshold", threshold); err != nil {
		return nil, err
	}
	label := Decide(models.ChurnLabel(rawLabel), pChurn, threshold)
	risk := e.policy.RiskLevel(pChurn)

	prediction := models.PredictionResult{
		Label:            label,
		ChurnProbability: pChurn,
		ThresholdUsed:    threshold,
		RiskLevel:        risk,
		Probabilities:    e.probabilityMap(probs),
	}

	outcome := &models.Outcome{
		Prediction: prediction,
		Revenue:    revenue,
		Warnings:   warnings,
	}

	if label == models.ChurnLabelChurned {
		e.explainChurn(rec, vec, outcome)
	} else {
		outcome.Recommendations = []string{RiskRecommendation(false, risk)}
	}

	e.logger.Info("evaluation complete",
		zap.String("label", string(label)),
		zap.Float64("churn_probability", pChurn),
		zap.Float64("threshold", threshold),
		zap.String("risk_level", string(risk)),
		zap.Float64("clv", revenue.CLV),
		zap.Float64("revenue_at_risk", revenue.RevenueAtRisk),
		zap.String("priority", string(revenue.Priority)),
	)

	return outcome, nil
}

// explainChurn fills in the churn-only parts of the outcome: category,
// attributions, insights and the retention playbook. Category and
// explanation failures degrade the outcome rather than fail the request;
// the decision itself already stands.
func (e *Engine) explainChurn(rec *models.CustomerRecord, vec *encoder.FeatureVector, outcome *models.Outcome) {
	recs := []string{RiskRecommendation(true, outcome.Prediction.RiskLevel)}

	if e.categoryEncoder != nil {
		catVec, _, err := e.categoryEncoder.Encode(rec)
		if err == nil {
			catLabel, _, predErr := e.bundle.CategoryForest.Predict(catVec.Values)
			if predErr == nil {
				category := models.ChurnCategory(catLabel)
				outcome.Prediction.Category = category
				recs = append(recs, CategoryRecommendations(category)...)
			} else {
				err = predErr
			}
		}
		if err != nil {
			e.logger.Warn("category prediction failed", zap.Error(err))
			outcome.Warnings = append(outcome.Warnings, "category prediction unavailable: "+err.Error())
		}
	}

	explanation, err := e.bundle.ChurnForest.Explain(vec.Values, string(models.ChurnLabelChurned))
	if err != nil {
		e.logger.Warn("explanation failed", zap.Error(err))
		outcome.Warnings = append(outcome.Warnings, "explanation unavailable: "+err.Error())
	} else {
		outcome.Prediction.TopFactors = explanation.TopFactors(vec.Names)
	}

	outcome.Insights = BuildInsights(rec)
	outcome.Recommendations = recs
}

// probabilityMap keys the class distribution by label.
func (e *Engine) probabilityMap(probs []float64) map[models.ChurnLabel]float64 {
	m := make(map[models.ChurnLabel]float64, len(probs))
	for i, class := range e.bundle.ChurnForest.Classes {
		m[models.ChurnLabel(class)] = probs[i]
	}
	return m
}

// checkProbability enforces the [0,1] invariant on probabilities and
// thresholds.
func checkProbability(stage, quantity string, value float64) error {
	if math.IsNaN(value) || value < 0 || value > 1 {
		return &models.ComputationInvariantError{Stage: stage, Quantity: quantity, Value: value}
	}
	return nil
}

// checkCurrency enforces finite, non-negative currency values.
func checkCurrency(stage, quantity string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return &models.ComputationInvariantError{Stage: stage, Quantity: quantity, Value: value}
	}
	return nil
}
