// Package objectstorage builds clients for S3-compatible object storage.
package objectstorage

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/getmentor/engineer-form/config"
	"github.com/getmentor/engineer-form/pkg/logger"
	"go.uber.org/zap"
)

const defaultRegion = "us-east-1"

// NewClient creates an S3 client with static credentials. A custom endpoint
// (MinIO, Yandex Object Storage, ...) switches to path-style addressing.
func NewClient(cfg config.ObjectStorageConfig) (*s3.Client, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("object storage credentials are required")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("object storage bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	opts := s3.Options{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	logger.Info("Object storage client initialized",
		zap.String("bucket", cfg.BucketName),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", region),
	)

	return s3.New(opts), nil
}
