package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds connection details for an S3-compatible bucket.
// Works with AWS S3, Cloudflare R2, MinIO, DigitalOcean Spaces, etc.
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional, for S3-compatible services
	PublicURL string // optional, overrides the derived public base URL
}

// S3Storage stores photos in an S3-compatible bucket.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Storage builds an S3 client and verifies the bucket exists,
// creating it when possible.
func NewS3Storage(conf S3Config) (*S3Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
	}
	if conf.AccessKey != "" && conf.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var client *s3.Client
	if conf.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true // required for MinIO and friends
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	publicURL := strings.TrimSuffix(conf.PublicURL, "/")
	if publicURL == "" {
		if conf.Endpoint != "" {
			publicURL = strings.TrimSuffix(conf.Endpoint, "/") + "/" + conf.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", conf.Bucket, conf.Region)
		}
	}

	storage := &S3Storage{
		client:    client,
		bucket:    conf.Bucket,
		publicURL: publicURL,
	}

	if err := storage.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return storage, nil
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}
	return nil
}

// Save uploads the object to the bucket.
func (s *S3Storage) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload to S3: %w", err)
	}
	return nil
}

// Delete removes the object from the bucket.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete from S3: %w", err)
	}
	return nil
}

// URL returns the public URL for the object.
func (s *S3Storage) URL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}
