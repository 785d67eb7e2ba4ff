package s3

import (
	"bytes"
	"context"
	"time"

	"marketplace-backend/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// ObjectStore wraps the bucket that holds avatar and product images. Reads go
// through presigned GET URLs handed to clients, never through the API.
type ObjectStore struct {
	client        s3iface.S3API
	bucket        string
	presignExpiry time.Duration
}

func New(cfg *config.Config) (*ObjectStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Storage.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey, ""),
	})
	if err != nil {
		return nil, err
	}

	return &ObjectStore{
		client:        s3.New(sess),
		bucket:        cfg.Storage.Bucket,
		presignExpiry: cfg.Storage.PresignExpiry,
	}, nil
}

func NewWithClient(client s3iface.S3API, bucket string, presignExpiry time.Duration) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, presignExpiry: presignExpiry}
}

func (s *ObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *ObjectStore) PresignGet(ctx context.Context, key string) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)
	return req.Presign(s.presignExpiry)
}
