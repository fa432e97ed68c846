package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2 exposes the S3 API per account; the region is always "auto".
const (
	r2EndpointFormat = "https://%s.r2.cloudflarestorage.com"
	r2Region         = "auto"
	archiveCacheCtl  = "no-cache"
)

type CloudflareR2UploaderConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

func (c CloudflareR2UploaderConfig) validate() error {
	fields := []struct{ name, value string }{
		{"account id", c.AccountID},
		{"access key id", c.AccessKeyID},
		{"secret access key", c.SecretAccessKey},
		{"bucket name", c.BucketName},
	}
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid Cloudflare R2 configuration, missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// R2Uploader writes archive objects to a Cloudflare R2 bucket.
type R2Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewCloudflareR2Uploader(ctx context.Context, cfg CloudflareR2UploaderConfig) (*R2Uploader, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(r2Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf(r2EndpointFormat, cfg.AccountID))
	})
	return &R2Uploader{client: client, bucket: cfg.BucketName, publicBaseURL: cfg.PublicBaseURL}, nil
}

// Ping checks that the bucket exists and the credentials can reach it.
func (u *R2Uploader) Ping(ctx context.Context) error {
	if _, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.bucket)}); err != nil {
		return fmt.Errorf("R2 bucket %s is not reachable: %w", u.bucket, err)
	}
	return nil
}

func (u *R2Uploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if key == "" {
		return nil, errors.New("object key is required")
	}
	out, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         reader,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(archiveCacheCtl),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put R2 object %s: %w", key, err)
	}

	res := &UploadResult{Key: key, Location: u.GetPublicURL(key)}
	if out.ETag != nil {
		res.ETag = strings.Trim(aws.ToString(out.ETag), `"`)
	}
	return res, nil
}

func (u *R2Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete R2 object %s: %w", key, err)
	}
	return nil
}

func (u *R2Uploader) GetPublicURL(key string) string {
	return publicURL(u.publicBaseURL, key)
}

// publicURL joins a base URL and an object key with exactly one slash. It is
// empty when the bucket has no public URL.
func publicURL(base, key string) string {
	if base == "" || key == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.JoinPath(strings.TrimPrefix(key, "/")).String()
}
