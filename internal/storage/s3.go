// Package storage uploads generated artifacts to object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/jonathan/autoapply/internal/config"
)

// ObjectStore stores artifacts and returns URLs for them.
type ObjectStore interface {
	// Put uploads body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
	// PresignGet returns a time-limited download URL for key.
	PresignGet(key string, ttl time.Duration) (string, error)
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// S3Store implements ObjectStore on Amazon S3.
type S3Store struct {
	client s3iface.S3API
	bucket string
	region string
}

// NewS3Store creates an S3Store from config. Static credentials are used when
// set; otherwise the SDK's default chain applies.
func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("S3 bucket and region are required")
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewS3StoreWithClient(s3.New(sess), cfg.Bucket, cfg.Region), nil
}

// NewS3StoreWithClient wraps an existing S3 client.
func NewS3StoreWithClient(client s3iface.S3API, bucket, region string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

// Put implements ObjectStore.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	key = strings.TrimPrefix(key, "/")
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	url := s.URL(key)
	log.Printf("[storage] uploaded %s (%d bytes)", url, len(body))
	return url, nil
}

// URL returns the virtual-hosted URL of key.
func (s *S3Store) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, strings.TrimPrefix(key, "/"))
}

// PresignGet implements ObjectStore.
func (s *S3Store) PresignGet(key string, ttl time.Duration) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(key, "/")),
	})
	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return url, nil
}

// Delete implements ObjectStore.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(key, "/")),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}
	return nil
}
