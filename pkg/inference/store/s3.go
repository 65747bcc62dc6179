package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config describes an S3 (or S3 compatible, e.g. minio) bucket.
type S3Config struct {
	// Endpoint overrides the service endpoint, e.g. "http://127.0.0.1:9000".
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// ObjectGetter is the subset of *s3.Client used by the store.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads artifacts from a bucket.
type S3Store struct {
	client ObjectGetter
	bucket string
	prefix string
}

// NewS3Client connects to the endpoint described by cfg. Static keys are
// used when AccessKey is set; otherwise the default AWS credential chain
// (environment, shared config, instance role) applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("store: load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3 returns a store reading bucket/prefix through client.
func S3(client ObjectGetter, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// Fetch implements Store.
func (s *S3Store) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return firstAvailable(ctx, s.prefix, ref, func(ctx context.Context, key string) ([]byte, error) {
		result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var missing *types.NoSuchKey
			if errors.As(err, &missing) {
				return nil, ErrNotFound
			}
			// Without s3:ListBucket a missing key answers 403.
			var status interface{ HTTPStatusCode() int }
			if errors.As(err, &status) && status.HTTPStatusCode() == http.StatusForbidden {
				return nil, fmt.Errorf("%w: %v", errAccessDenied, err)
			}
			return nil, err
		}
		defer result.Body.Close()
		return io.ReadAll(result.Body)
	})
}
