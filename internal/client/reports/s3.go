package reports

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the subset of *s3.Client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket string
	Region string
	// Endpoint points at an S3-compatible server such as MinIO. Empty means
	// AWS itself.
	Endpoint  string
	AccessKey string
	SecretKey string
	// Prefix is prepended to every object key.
	Prefix string
}

// S3Sink uploads reports with PutObject.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Sink builds an S3 client from cfg. Without static keys the default
// AWS credential chain applies.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		// MinIO and friends do not all accept the newer default checksums.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return NewS3SinkWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewS3SinkWithClient(client PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Sink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	key := path.Join(s.prefix, name)

	ct := contentType(name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(ct),
	})
	if err != nil {
		return "", fmt.Errorf("upload s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func contentType(name string) string {
	ext := filepath.Ext(name)
	switch ext {
	case ".csv":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
