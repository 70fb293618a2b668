package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "moonflow/config"
	"moonflow/logger"
)

// Uploader stores one archived snapshot body under a key.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte) error
}

// S3Uploader writes snapshot bodies to an S3 bucket.
type S3Uploader struct {
	client *s3.Client
	bucket string
	log    *logger.Log
}

// NewS3Uploader configures the AWS SDK from the storage config. Static
// credentials from the config win over the default chain when present.
func NewS3Uploader(cfg appconfig.S3Config) (*S3Uploader, error) {
	log := logger.GetLogger()
	ctx := context.Background()

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		log.WithComponent("s3_uploader").
			WithEnv("AWS_REGION", "S3_BUCKET").
			Error("aws credentials not found")
		return nil, fmt.Errorf("aws credentials not found")
	}

	log.WithComponent("s3_uploader").WithFields(logger.Fields{
		"region": cfg.Region,
		"bucket": cfg.Bucket,
	}).Debug("s3 uploader initialized")

	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		log:    log,
	}, nil
}

// Upload puts one JSON snapshot into the bucket.
func (u *S3Uploader) Upload(ctx context.Context, key string, body []byte) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}
