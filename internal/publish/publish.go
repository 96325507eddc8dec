// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish uploads a finished CSV to S3.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pdiddy/place-resolver/pkg/types"
)

// PutObjectAPI is the slice of the S3 client the publisher needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads files to one bucket.
type Publisher struct {
	Client PutObjectAPI
	Config types.PublishConfig
}

// New builds a Publisher backed by the default AWS credential chain.
func New(ctx context.Context, cfg types.PublishConfig) (*Publisher, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &Publisher{Client: s3.NewFromConfig(awsCfg), Config: cfg}, nil
}

// ObjectKey returns the key the file at path is stored under.
func (p *Publisher) ObjectKey(path string) string {
	if p.Config.Key != "" {
		return p.Config.Key
	}
	return filepath.Base(path)
}

// Upload stores the file at path and returns its s3:// URI.
func (p *Publisher) Upload(ctx context.Context, path string) (string, error) {
	if p.Config.Bucket == "" {
		return "", fmt.Errorf("no publish bucket configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	key := p.ObjectKey(path)
	_, err = p.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.Config.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading to s3://%s/%s: %w", p.Config.Bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", p.Config.Bucket, key), nil
}
