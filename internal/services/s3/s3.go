// Package s3service fetches model artifact bundles from S3.
package s3service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"churn-retention-engine/internal/services/predictor"
	"churn-retention-engine/internal/utils"
)

// Service handles S3 operations against the artifact bucket.
type Service struct {
	client *s3.Client
	bucket string
}

// NewService creates a new S3 service for a bucket.
func NewService(ctx context.Context, bucket string) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Service{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// bundleFiles are the artifact objects fetched under the bundle prefix.
// The category pair is optional and skipped when absent.
var bundleFiles = []struct {
	name     string
	required bool
}{
	{predictor.ChurnEncodingFile, true},
	{predictor.ChurnModelFile, true},
	{predictor.CategoryEncodingFile, false},
	{predictor.CategoryModelFile, false},
}

// DownloadBundle fetches the model artifact bundle under prefix into
// destDir and returns the local bundle directory.
func (s *Service) DownloadBundle(ctx context.Context, prefix, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create bundle dir: %w", err)
	}

	start := time.Now()
	fetched := 0
	for _, file := range bundleFiles {
		key := path.Join(prefix, file.name)
		dest := filepath.Join(destDir, file.name)

		err := s.downloadObject(ctx, key, dest)
		if err != nil {
			if !file.required {
				continue
			}
			return "", fmt.Errorf("failed to download artifact %s: %w", key, err)
		}
		fetched++
	}

	utils.GetLogger().Info("Downloaded model bundle",
		zap.String("bucket", s.bucket),
		zap.String("prefix", prefix),
		zap.Int("files", fetched),
		zap.Duration("elapsed", time.Since(start)),
	)

	return destDir, nil
}

// GetObject reads a single object into memory.
func (s *Service) GetObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// downloadObject streams one object to a local file.
func (s *Service) downloadObject(ctx context.Context, key, dest string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer out.Body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		return err
	}
	return nil
}
