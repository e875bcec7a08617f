package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// ObjectPutter is the subset of *s3.Client used by S3Sink.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// GetPresigner is the subset of *s3.PresignClient used by S3Sink.
type GetPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Sink uploads to a bucket and returns a presigned GET URL, which is
// what the Instagram container API fetches from.
type S3Sink struct {
	client    ObjectPutter
	presigner GetPresigner
	bucket    string
	expiry    time.Duration
}

// NewS3Sink creates a sink for bucket. A non-positive expiry uses DefaultPresignExpiry.
func NewS3Sink(client ObjectPutter, presigner GetPresigner, bucket string, expiry time.Duration) *S3Sink {
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	return &S3Sink{client: client, presigner: presigner, bucket: bucket, expiry: expiry}
}

// Put uploads data under key and presigns it.
func (s *S3Sink) Put(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	log.Info().Str("bucket", s.bucket).Str("key", key).Int("bytes", len(data)).Msg("Object uploaded to S3")
	return PresignedURL(ctx, s.presigner, s.bucket, key, s.expiry)
}

// PresignedURL creates a pre-signed GET URL for an S3 object.
func PresignedURL(ctx context.Context, presigner GetPresigner, bucket, key string, expiry time.Duration) (string, error) {
	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket, Key: &key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign GetObject: %w", err)
	}
	return result.URL, nil
}
