// Package database provides Postgres persistence for evaluations.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"churn-retention-engine/internal/models"
)

// Schema is the DDL for the evaluations table.
const Schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id UUID PRIMARY KEY,
	batch_id TEXT,
	customer JSONB NOT NULL,
	outcome JSONB NOT NULL,
	label TEXT NOT NULL,
	churn_probability DOUBLE PRECISION NOT NULL,
	revenue_at_risk DOUBLE PRECISION NOT NULL,
	priority TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_evaluations_batch ON evaluations (batch_id);
CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_evaluations_priority ON evaluations (priority);
`

// EvaluationRepository handles evaluation database operations.
type EvaluationRepository struct {
	db *DB
}

// NewEvaluationRepository creates a new evaluation repository.
func NewEvaluationRepository(db *DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// InitSchema creates the evaluations table if it does not exist.
func (r *EvaluationRepository) InitSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create evaluations schema: %w", err)
	}
	return nil
}

// Create persists one evaluation and returns its ID.
func (r *EvaluationRepository) Create(ctx context.Context, eval *models.Evaluation) (string, error) {
	if eval.ID == "" {
		eval.ID = uuid.New().String()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}

	customerJSON, err := json.Marshal(eval.Customer)
	if err != nil {
		return "", fmt.Errorf("failed to marshal customer: %w", err)
	}
	outcomeJSON, err := json.Marshal(eval.Outcome)
	if err != nil {
		return "", fmt.Errorf("failed to marshal outcome: %w", err)
	}

	query := `
		INSERT INTO evaluations (
			id, batch_id, customer, outcome, label,
			churn_probability, revenue_at_risk, priority, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		eval.ID,
		eval.BatchID,
		customerJSON,
		outcomeJSON,
		string(eval.Label),
		eval.ChurnProbability,
		eval.RevenueAtRisk,
		string(eval.Priority),
		eval.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create evaluation: %w", err)
	}

	return eval.ID, nil
}

// BulkInsert persists a batch of evaluations in one transaction. It returns
// the inserted and failed counts.
func (r *EvaluationRepository) BulkInsert(ctx context.Context, evals []*models.Evaluation) (int, int, error) {
	inserted := 0
	failed := 0

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		for _, eval := range evals {
			if eval.ID == "" {
				eval.ID = uuid.New().String()
			}
			if eval.CreatedAt.IsZero() {
				eval.CreatedAt = now
			}

			customerJSON, err := json.Marshal(eval.Customer)
			if err != nil {
				failed++
				continue
			}
			outcomeJSON, err := json.Marshal(eval.Outcome)
			if err != nil {
				failed++
				continue
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO evaluations (
					id, batch_id, customer, outcome, label,
					churn_probability, revenue_at_risk, priority, created_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				eval.ID, eval.BatchID, customerJSON, outcomeJSON,
				string(eval.Label), eval.ChurnProbability,
				eval.RevenueAtRisk, string(eval.Priority), eval.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert evaluation %s: %w", eval.ID, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return inserted, failed, err
	}

	return inserted, failed, nil
}

// GetByID fetches one evaluation.
func (r *EvaluationRepository) GetByID(ctx context.Context, id string) (*models.Evaluation, error) {
	query := `
		SELECT id, batch_id, customer, outcome, label,
		       churn_probability, revenue_at_risk, priority, created_at
		FROM evaluations WHERE id = $1`

	return scanEvaluation(r.db.QueryRow(ctx, query, id))
}

// ListRecent returns the most recent evaluations, newest first.
func (r *EvaluationRepository) ListRecent(ctx context.Context, limit int) ([]*models.Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, batch_id, customer, outcome, label,
		       churn_probability, revenue_at_risk, priority, created_at
		FROM evaluations ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var evals []*models.Evaluation
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, eval)
	}
	return evals, rows.Err()
}

// BatchStats aggregates one batch scoring run.
func (r *EvaluationRepository) BatchStats(ctx context.Context, batchID string) (*models.BatchStats, error) {
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE label = 'Churned'),
		       COALESCE(sum(revenue_at_risk), 0)
		FROM evaluations WHERE batch_id = $1`

	stats := &models.BatchStats{BatchID: batchID, ByRiskLevel: make(map[models.RiskLevel]int)}
	err := r.db.QueryRow(ctx, query, batchID).Scan(
		&stats.Evaluated, &stats.Churned, &stats.TotalRevenueAtRisk,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate batch %s: %w", batchID, err)
	}

	riskQuery := `
		SELECT outcome->'prediction'->>'risk_level', count(*)
		FROM evaluations WHERE batch_id = $1
		GROUP BY 1`

	rows, err := r.db.Query(ctx, riskQuery, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate risk levels for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		stats.ByRiskLevel[models.RiskLevel(level)] = count
	}
	return stats, rows.Err()
}

// scanEvaluation reads one evaluation row.
func scanEvaluation(row pgx.Row) (*models.Evaluation, error) {
	var eval models.Evaluation
	var customerJSON, outcomeJSON []byte
	var label, priority string

	err := row.Scan(
		&eval.ID, &eval.BatchID, &customerJSON, &outcomeJSON, &label,
		&eval.ChurnProbability, &eval.RevenueAtRisk, &priority, &eval.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan evaluation: %w", err)
	}

	if err := json.Unmarshal(customerJSON, &eval.Customer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(outcomeJSON, &eval.Outcome); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outcome: %w", err)
	}

	eval.Label = models.ChurnLabel(label)
	eval.Priority = models.Priority(priority)
	return &eval, nil
}
