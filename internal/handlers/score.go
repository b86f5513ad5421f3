// Package handlers provides Lambda handlers for the churn retention engine.
package handlers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appConfig "churn-retention-engine/internal/config"
	"churn-retention-engine/internal/models"
	"churn-retention-engine/internal/services/database"
	"churn-retention-engine/internal/services/decision"
	"churn-retention-engine/internal/services/predictor"
	s3service "churn-retention-engine/internal/services/s3"
	"churn-retention-engine/internal/services/ses"
	"churn-retention-engine/internal/utils"
)

// ScoreHandler evaluates every customer in a CSV file landed in S3.
type ScoreHandler struct {
	engine   *decision.Engine
	db       *database.DB
	evalRepo *database.EvaluationRepository
	mailer   *ses.Service
	alertTo  string
}

// NewScoreHandler wires the handler: artifacts (from S3 or local disk),
// policy, database and mailer. The database and mailer are optional; the
// handler still scores without them.
func NewScoreHandler(ctx context.Context) (*ScoreHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	modelDir := cfg.ModelDir
	if cfg.ModelBundleS3 != "" {
		store, err := s3service.NewService(ctx, cfg.ModelBundleS3)
		if err != nil {
			return nil, err
		}
		modelDir, err = store.DownloadBundle(ctx, cfg.ModelBundleKey, os.TempDir()+"/model-bundle")
		if err != nil {
			return nil, err
		}
	}

	bundle, err := predictor.LoadBundle(modelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load model bundle: %w", err)
	}

	policy, err := decision.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}

	engine, err := decision.NewEngine(bundle, policy, utils.GetLogger())
	if err != nil {
		return nil, err
	}

	handler := &ScoreHandler{engine: engine, alertTo: cfg.AlertRecipient}

	if db, err := database.New(cfg); err == nil {
		handler.db = db
		handler.evalRepo = database.NewEvaluationRepository(db)
	} else {
		utils.GetLogger().Warn("Scoring without database", zap.Error(err))
	}

	if cfg.SESSenderEmail != "" && cfg.AlertRecipient != "" {
		if mailer, err := ses.NewService(ctx, cfg.SESSenderEmail); err == nil {
			handler.mailer = mailer
		} else {
			utils.GetLogger().Warn("Scoring without alert mailer", zap.Error(err))
		}
	}

	return handler, nil
}

// ScoreResult summarizes one batch scoring run.
type ScoreResult struct {
	Message string            `json:"message"`
	Stats   models.BatchStats `json:"stats"`
	Errors  []string          `json:"errors,omitempty"`
}

// Handle processes S3 events for uploaded customer CSV files.
func (h *ScoreHandler) Handle(ctx context.Context, s3Event events.S3Event) (ScoreResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return ScoreResult{Message: "No records to process"}, nil
	}

	record := s3Event.Records[0]
	bucket := record.S3.Bucket.Name
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("failed to decode S3 key: %w", err)
	}

	logger.Info("Scoring customer batch",
		zap.String("bucket", bucket),
		zap.String("key", key),
	)

	store, err := s3service.NewService(ctx, bucket)
	if err != nil {
		return ScoreResult{}, err
	}
	content, err := store.GetObject(ctx, key)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("failed to download batch CSV: %w", err)
	}

	batchID := uuid.New().String()
	parser := utils.NewCSVParser()
	customers, parseErrors := parser.ParseCustomers(string(content))

	result := ScoreResult{
		Stats: models.BatchStats{
			BatchID:     batchID,
			TotalRows:   len(customers) + len(parseErrors),
			ByRiskLevel: make(map[models.RiskLevel]int),
		},
	}
	for _, e := range parseErrors {
		result.Errors = append(result.Errors, e.Error())
	}

	start := time.Now()
	var evals []*models.Evaluation

	for _, customer := range customers {
		outcome, err := h.engine.Evaluate(ctx, customer)
		if err != nil {
			result.Stats.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		result.Stats.Evaluated++
		result.Stats.ByRiskLevel[outcome.Prediction.RiskLevel]++
		if outcome.Prediction.Churned() {
			result.Stats.Churned++
		}
		result.Stats.TotalRevenueAtRisk += outcome.Revenue.RevenueAtRisk

		evals = append(evals, &models.Evaluation{
			BatchID:          batchID,
			Customer:         *customer,
			Outcome:          *outcome,
			Label:            outcome.Prediction.Label,
			ChurnProbability: outcome.Prediction.ChurnProbability,
			RevenueAtRisk:    outcome.Revenue.RevenueAtRisk,
			Priority:         outcome.Revenue.Priority,
		})

		if h.mailer != nil && ses.ShouldAlert(outcome) {
			if _, err := h.mailer.SendRetentionAlert(ctx, h.alertTo, outcome); err != nil {
				logger.Warn("Retention alert failed", zap.Error(err))
			}
		}
	}

	if h.evalRepo != nil && len(evals) > 0 {
		inserted, failed, err := h.evalRepo.BulkInsert(ctx, evals)
		if err != nil {
			logger.Error("Failed to persist evaluations", zap.Error(err))
		} else {
			logger.Info("Persisted evaluations",
				zap.String("batch_id", batchID),
				zap.Int("inserted", inserted),
				zap.Int("failed", failed),
			)
		}
	}

	logger.Info("Batch scoring complete",
		zap.String("batch_id", batchID),
		zap.Int("evaluated", result.Stats.Evaluated),
		zap.Int("churned", result.Stats.Churned),
		zap.Float64("total_revenue_at_risk", result.Stats.TotalRevenueAtRisk),
		zap.Duration("elapsed", time.Since(start)),
	)

	result.Message = fmt.Sprintf("Scored %d of %d customers", result.Stats.Evaluated, result.Stats.TotalRows)
	return result, nil
}
