// Package main provides the local evaluation CLI: read one customer record
// from a JSON file (or stdin), run the full pipeline and print the report.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"churn-retention-engine/internal/config"
	"churn-retention-engine/internal/models"
	"churn-retention-engine/internal/services/cache"
	"churn-retention-engine/internal/services/database"
	"churn-retention-engine/internal/services/decision"
	"churn-retention-engine/internal/services/predictor"
	"churn-retention-engine/internal/utils"
)

func main() {
	inputPath := flag.String("input", "-", "customer record JSON file, - for stdin")
	asJSON := flag.Bool("json", false, "print the outcome as JSON instead of the report")
	persist := flag.Bool("persist", false, "store the evaluation in the database")
	flag.Parse()

	if err := utils.InitLogger(os.Getenv("LOG_LEVEL")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	bundle, err := predictor.LoadBundle(cfg.ModelDir)
	if err != nil {
		log.Fatalf("Failed to load model bundle from %s: %v", cfg.ModelDir, err)
	}

	policy, err := decision.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatalf("Failed to load policy: %v", err)
	}

	engine, err := decision.NewEngine(bundle, policy, utils.GetLogger())
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	record, err := readRecord(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read record: %v", err)
	}

	ctx := context.Background()

	var outcomes *cache.Cache
	if cfg.RedisAddr != "" {
		outcomes = cache.New(cfg.RedisAddr, cfg.RedisPassword,
			time.Duration(cfg.CacheTTLHours)*time.Hour, utils.GetLogger())
		defer outcomes.Close()
	}

	var outcome *models.Outcome
	if outcomes != nil {
		outcome = outcomes.Get(ctx, record)
	}
	if outcome == nil {
		outcome, err = engine.Evaluate(ctx, record)
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintln(os.Stderr, "Record rejected:")
				for _, f := range verr.Fields {
					fmt.Fprintf(os.Stderr, "  %s %s\n", f.Field, f.Message)
				}
				os.Exit(2)
			}
			log.Fatalf("Evaluation failed: %v", err)
		}
		if outcomes != nil {
			outcomes.Put(ctx, record, outcome)
		}
	}

	if *persist {
		db, err := database.New(cfg)
		if err != nil {
			utils.GetLogger().Warn("Not persisting evaluation", zap.Error(err))
		} else {
			defer db.Close()
			repo := database.NewEvaluationRepository(db)
			id, err := repo.Create(ctx, &models.Evaluation{
				Customer:         *record,
				Outcome:          *outcome,
				Label:            outcome.Prediction.Label,
				ChurnProbability: outcome.Prediction.ChurnProbability,
				RevenueAtRisk:    outcome.Revenue.RevenueAtRisk,
				Priority:         outcome.Revenue.Priority,
			})
			if err != nil {
				utils.GetLogger().Warn("Failed to persist evaluation", zap.Error(err))
			} else {
				utils.GetLogger().Info("Evaluation stored", zap.String("id", id))
			}
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcome); err != nil {
			log.Fatalf("Failed to encode outcome: %v", err)
		}
		return
	}

	fmt.Print(decision.ExecutiveSummary(record, outcome))
}

// readRecord loads a customer record from a file or stdin.
func readRecord(path string) (*models.CustomerRecord, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var record models.CustomerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid record JSON: %w", err)
	}
	return &record, nil
}
