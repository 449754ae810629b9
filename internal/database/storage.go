package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/instihub/instihub-backend/internal/config"
)

// NewStorageClient creates an S3 client for the configured S3-compatible
// object storage (AWS S3, DigitalOcean Spaces, MinIO). Returns (nil, nil)
// when storage is unconfigured; the health probe then reports it as such.
func NewStorageClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*s3.Client, error) {
	if !cfg.StorageConfigured() {
		log.Warn().Msg("Object storage not configured, storage probe disabled")
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.StorageRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
		o.UsePathStyle = true
	})

	log.Info().
		Str("endpoint", cfg.StorageEndpoint).
		Str("bucket", cfg.StorageBucket).
		Msg("Object storage client ready")

	return client, nil
}
