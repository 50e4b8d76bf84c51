// Package archive stores raw upstream roster payloads in S3-compatible
// object storage, one object per sync pass.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/karmaboard/internal/server/config"
)

// Putter is the slice of the S3 API the archive needs.
type Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Archive struct {
	bucket string
	client Putter
}

// seams for tests
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
)

// New builds an S3 client from cfg. Static credentials and a custom endpoint
// (path-style, for MinIO and friends) are used when configured; otherwise
// the default AWS credential chain applies.
func New(ctx context.Context, cfg *config.Config) (*Archive, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.ArchiveAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ArchiveEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.ArchiveEndpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(cfg.ArchiveBucket, client), nil
}

func NewWithClient(bucket string, client Putter) *Archive {
	return &Archive{bucket: bucket, client: client}
}

// Key lays objects out by day: roster/YYYY/MM/DD/<runID>-<digest>.csv.
func Key(now time.Time, runID string, digest uint64) string {
	now = now.UTC()
	return fmt.Sprintf("roster/%04d/%02d/%02d/%s-%016x.csv", now.Year(), now.Month(), now.Day(), runID, digest)
}

// Put uploads body under key.
func (a *Archive) Put(ctx context.Context, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("archive %s/%s: %w", a.bucket, key, err)
	}
	return nil
}
