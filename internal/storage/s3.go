package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bestronggym/gym-desk/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/exp/slog"
)

// s3Source reads seed documents from an S3-compatible bucket.
type s3Source struct {
	client     *s3.Client
	bucketName string
	log        *slog.Logger
}

// NewS3Source creates a SeedSource backed by the configured bucket.
func NewS3Source(ctx context.Context, cfg config.S3Config, log *slog.Logger) (SeedSource, error) {
	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)

	// Custom resolver for S3-compatible endpoints (MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	// Path-style addressing is required by most S3-compatible services.
	client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.Info("s3 seed source initialized", slog.String("endpoint", endpoint), slog.String("bucket", cfg.BucketName))

	return &s3Source{
		client:     client,
		bucketName: cfg.BucketName,
		log:        log,
	}, nil
}

// Fetch downloads the object named name from the bucket.
func (s *s3Source) Fetch(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrSeedNotFound, s.bucketName, name)
		}
		s.log.Error("failed to get seed object", slog.String("key", name), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrSeedUnavailable, err)
	}
	defer out.Body.Close()

	return io.ReadAll(io.LimitReader(out.Body, maxSeedSize))
}

// endpointURL adds a scheme to a bare host:port endpoint, https unless
// useSSL is off. Endpoints that already carry a scheme are left alone.
func endpointURL(endpoint string, useSSL bool) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
