// Package storage provides object storage backed resolution of product image URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	catalogapp "github.com/storemanager/backend/internal/application/catalog"
	infraconfig "github.com/storemanager/backend/internal/infrastructure/config"
)

// Ensure S3ImageResolver implements ImageResolver
var _ catalogapp.ImageResolver = (*S3ImageResolver)(nil)

// presignAPI is the subset of s3.PresignClient the resolver uses
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3ImageResolver resolves product image ids to servable URLs from an
// S3-compatible bucket (AWS S3, MinIO, and the like). When PublicBaseURL is
// configured the bucket is assumed publicly readable and URLs are built
// without touching the storage API; otherwise a presigned GET URL is issued.
type S3ImageResolver struct {
	presigner     presignAPI
	bucket        string
	publicBaseURL string
	presignExpiry time.Duration
}

// NewS3ImageResolver creates a resolver from storage configuration.
// Credentials come from the default AWS credential chain.
func NewS3ImageResolver(cfg infraconfig.StorageConfig) (*S3ImageResolver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	if cfg.Endpoint != "" {
		if _, err := url.Parse(cfg.Endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	expiry := cfg.PresignExpiry
	if expiry == 0 {
		expiry = 15 * time.Minute
	}

	return &S3ImageResolver{
		presigner:     s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBaseURL: cfg.PublicBaseURL,
		presignExpiry: expiry,
	}, nil
}

// objectKey maps an image id to its bucket key
func objectKey(imageID int64) string {
	return fmt.Sprintf("media/%d", imageID)
}

// ResolveURL returns a URL serving the image object for the given id
func (r *S3ImageResolver) ResolveURL(ctx context.Context, imageID int64) (string, error) {
	if imageID <= 0 {
		return "", errors.New("image id is required")
	}

	key := objectKey(imageID)
	if r.publicBaseURL != "" {
		return strings.TrimSuffix(r.publicBaseURL, "/") + "/" + key, nil
	}

	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(r.presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign image URL: %w", err)
	}

	return req.URL, nil
}
