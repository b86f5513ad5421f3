package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"churn-retention-engine/internal/services/encoder"
)

// Artifact file names inside a model bundle directory. The churn pair is
// required; the category pair is optional (category prediction degrades to
// "not available" without it, matching how the original deployment shipped
// before the category model existed).
const (
	ChurnEncodingFile    = "churn_encoding.json"
	ChurnModelFile       = "churn_model.json"
	CategoryEncodingFile = "category_encoding.json"
	CategoryModelFile    = "category_model.json"
)

// Bundle holds every fitted artifact the engine needs, loaded once at
// process start and shared read-only across requests.
type Bundle struct {
	ChurnSpec   *encoder.EncodingSpec
	ChurnForest *Forest

	CategorySpec   *encoder.EncodingSpec
	CategoryForest *Forest
}

// HasCategoryModel reports whether the optional category artifacts loaded.
func (b *Bundle) HasCategoryModel() bool {
	return b.CategorySpec != nil && b.CategoryForest != nil
}

// LoadBundle reads the artifact bundle from a directory.
func LoadBundle(dir string) (*Bundle, error) {
	churnSpec, err := encoder.LoadEncodingSpec(filepath.Join(dir, ChurnEncodingFile))
	if err != nil {
		return nil, err
	}

	churnForest, err := loadForest(filepath.Join(dir, ChurnModelFile))
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{ChurnSpec: churnSpec, ChurnForest: churnForest}
	if err := bundle.checkSchemas(); err != nil {
		return nil, err
	}

	// Category artifacts are optional; only a complete pair is accepted.
	catSpecPath := filepath.Join(dir, CategoryEncodingFile)
	catModelPath := filepath.Join(dir, CategoryModelFile)
	if fileExists(catSpecPath) && fileExists(catModelPath) {
		catSpec, err := encoder.LoadEncodingSpec(catSpecPath)
		if err != nil {
			return nil, err
		}
		catForest, err := loadForest(catModelPath)
		if err != nil {
			return nil, err
		}
		if len(catSpec.FeatureNames) != catForest.FeatureCount {
			return nil, fmt.Errorf("category artifacts disagree: encoding has %d columns, model expects %d",
				len(catSpec.FeatureNames), catForest.FeatureCount)
		}
		bundle.CategorySpec = catSpec
		bundle.CategoryForest = catForest
	}

	return bundle, nil
}

// checkSchemas verifies the schema contract between encoder and model.
func (b *Bundle) checkSchemas() error {
	if len(b.ChurnSpec.FeatureNames) != b.ChurnForest.FeatureCount {
		return fmt.Errorf("churn artifacts disagree: encoding has %d columns, model expects %d",
			len(b.ChurnSpec.FeatureNames), b.ChurnForest.FeatureCount)
	}
	if b.ChurnForest.ClassIndex("Churned") < 0 {
		return fmt.Errorf("churn model has no Churned class (classes: %v)", b.ChurnForest.Classes)
	}
	return nil
}

// loadForest reads and validates a forest artifact.
func loadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}

	var forest Forest
	if err := json.Unmarshal(data, &forest); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}

	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}

	return &forest, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
