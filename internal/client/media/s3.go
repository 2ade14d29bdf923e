package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Seams for unit tests: the AWS constructors and calls are reached through
// package-level variables so tests can substitute fakes.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// S3Config carries the storage bucket settings. PublicBaseURL is the CDN-ish
// prefix the backend serves uploaded objects from.
type S3Config struct {
	Region        string
	BaseEndpoint  string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Uploader implements Uploader on an S3-compatible bucket.
type S3Uploader struct {
	cfg S3Config
}

func NewS3Uploader(cfg S3Config) *S3Uploader {
	return &S3Uploader{cfg: cfg}
}

func storageKey(contentType string) string {
	ext := ""
	if i := strings.LastIndex(contentType, "/"); i >= 0 && i < len(contentType)-1 {
		ext = "." + contentType[i+1:]
	}
	d := time.Now()
	return fmt.Sprintf("avatars/%d/%d/%v%s", d.Year(), d.Month(), uuid.New(), ext)
}

func (u *S3Uploader) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.AccessKey,
			u.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.cfg.BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Upload stores data under a fresh storage key and returns the public URL.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	client, err := u.client(ctx)
	if err != nil {
		return "", fmt.Errorf("storage client: %w", err)
	}

	bucket := u.cfg.Bucket
	key := storageKey(contentType)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage upload: %w", err)
	}

	return strings.TrimSuffix(u.cfg.PublicBaseURL, "/") + "/" + key, nil
}
