package photo

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Store implements Store on AWS S3.
type s3Store struct {
	client *s3.Client
	bucket string
	region string
	prefix string
	logger zerolog.Logger
}

// NewS3Store creates an S3-backed photo store.
func NewS3Store(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "s3-photo-store").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 photo store initialised")

	return &s3Store{
		client: client,
		bucket: bucket,
		region: region,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Save puts the photo into the bucket and returns its object URL.
func (s *s3Store) Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := s.prefix + uniqueName(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to put photo to S3")
		return "", fmt.Errorf("failed to put photo to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Debug().Str("key", key).Msg("photo stored in S3")
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
