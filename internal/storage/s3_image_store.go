package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of the S3 client used by the store
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps images in an S3 bucket under the meal-images/ prefix.
// Objects are private; references are object keys, not public URLs.
type S3ImageStore struct {
	client s3API
	bucket string
}

const s3KeyPrefix = "meal-images/"

// NewS3ImageStore creates a store backed by the default AWS credential chain
func NewS3ImageStore(ctx context.Context, bucket, region string) (*S3ImageStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for S3: %w", err)
	}

	return &S3ImageStore{client: s3.NewFromConfig(awsCfg), bucket: bucket}, nil
}

// Save uploads the image and returns its object key
func (s *S3ImageStore) Save(ctx context.Context, prefix, contentType string, body io.Reader) (string, error) {
	ext, err := ExtensionFor(contentType)
	if err != nil {
		return "", err
	}

	key := s3KeyPrefix + objectKey(prefix, ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// Delete removes an object previously returned by Save
func (s *S3ImageStore) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, s3KeyPrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidImageRef, ref)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
