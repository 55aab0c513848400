package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds explicit construction parameters for an S3-compatible
// backend (AWS S3 or MinIO). Single bucket; storage keys map to object
// keys directly.
type S3Config struct {
	Region    string
	Bucket    string // required
	Endpoint  string // optional; enables a custom endpoint (e.g. MinIO)
	PathStyle bool

	// PublicBaseURL, when set, is joined with the object key to form the
	// returned URL (for buckets fronted by a CDN or public endpoint).
	// When empty the standard virtual-hosted AWS URL is built.
	PublicBaseURL string
}

// S3Uploader stores objects in an S3-compatible bucket.
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
	region  string
}

// NewS3 builds an uploader from S3Config, using the default AWS
// credentials chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		region:  region,
	}, nil
}

// Upload stores the object under a timestamp-derived key and returns its
// public URL.
func (u *S3Uploader) Upload(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	key := StorageKey(suggestedName)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &u.bucket,
		Key:    &key,
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %q: %w", key, err)
	}
	if u.baseURL != "" {
		return u.baseURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}
