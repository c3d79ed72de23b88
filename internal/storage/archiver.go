// Package storage archives generated exports to an S3-compatible bucket so
// finance can pull historical documents without re-rendering them.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	appconfig "billing-export/internal/config"
	"billing-export/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Archiver struct {
	client *s3.Client
	bucket string
	log    *logger.Logger
}

// NewArchiver builds the archive client, or returns nil when archiving is
// disabled. Callers treat a nil Archiver as a no-op.
func NewArchiver(cfg *appconfig.Config, log *logger.Logger) (*Archiver, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Archive.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("archive client config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
		}
	})

	return &Archiver{
		client: client,
		bucket: cfg.Archive.Bucket,
		log:    log,
	}, nil
}

// Store uploads one generated export, keyed by invoice id and filename.
func (a *Archiver) Store(ctx context.Context, invoiceID int, filename, contentType string, data []byte) error {
	if a == nil {
		return nil
	}

	key := fmt.Sprintf("invoices/%d/%s", invoiceID, filename)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("archive upload %s: %w", key, err)
	}
	return nil
}

// StoreAsync uploads in the background; archive failures never affect the
// response already sent to the caller.
func (a *Archiver) StoreAsync(invoiceID int, filename, contentType string, data []byte) {
	if a == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := a.Store(ctx, invoiceID, filename, contentType, data); err != nil {
			a.log.Warnw("export archive failed", "invoice_id", invoiceID, "file", filename, "error", err)
		}
	}()
}
