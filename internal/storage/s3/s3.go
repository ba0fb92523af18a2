// Package s3 archives generated export files to S3-compatible storage
// (AWS S3, Cloudflare R2, MinIO). Archiving is best-effort: the download the
// caller already received is never affected by a failure here.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type Archiver struct {
	client *s3.Client
	bucket string
	log    *zap.Logger
}

// NewArchiver builds an archiver from EXPORTS_BUCKET plus the usual AWS env.
// Returns (nil, nil) when no bucket is configured; callers treat a nil
// archiver as "archiving disabled".
func NewArchiver(ctx context.Context, log *zap.Logger) (*Archiver, error) {
	bucket := os.Getenv("EXPORTS_BUCKET")
	if bucket == "" {
		return nil, nil
	}

	creds := credentials.NewStaticCredentialsProvider(
		os.Getenv("AWS_ACCESS_KEY_ID"),
		os.Getenv("AWS_SECRET_ACCESS_KEY"),
		"",
	)
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(os.Getenv("AWS_REGION")),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := os.Getenv("AWS_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &Archiver{client: client, bucket: bucket, log: log}, nil
}

// Archive stores a copy of one export under a timestamped key. Runs in the
// caller's goroutine; callers that must not block spawn it themselves.
func (a *Archiver) Archive(ctx context.Context, name, contentType string, body []byte) {
	if a == nil {
		return
	}
	key := time.Now().UTC().Format("2006/01/02/150405-") + name

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		a.log.Warn("export archive failed", zap.String("key", key), zap.Error(err))
		return
	}
	a.log.Info("export archived", zap.String("key", key), zap.Int("bytes", len(body)))
}
