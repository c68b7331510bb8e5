// AngelaMos | 2026
// client.go

// Package storage wraps the S3-compatible object store holding note
// videos. Cloudflare R2 speaks the S3 API, so the AWS SDK with a
// custom base endpoint covers it.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
)

type Client struct {
	s3            *s3.Client
	bucket        string
	publicBaseURL string
}

func NewClient(ctx context.Context, cfg config.StorageConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
	})

	return &Client{
		s3:            client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (c *Client) Upload(
	ctx context.Context,
	key, contentType string,
	body io.Reader,
	size int64,
) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload object %s: %w", key, err)
	}

	return nil
}

func (c *Client) Remove(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

// PublicURL maps a stored key onto the bucket's public CDN hostname.
func (c *Client) PublicURL(key string) string {
	return c.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}
