package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"

	cfg "github.com/maheshrc27/pulseboard/configs"
	"github.com/maheshrc27/pulseboard/internal/transfer"
)

// RunExporter archives a run summary to external storage. Export is
// best-effort; a failed upload never fails the run that produced it.
type RunExporter interface {
	ExportRunSummary(ctx context.Context, result *transfer.AnalyticsRunResult) error
}

type R2Exporter struct {
	config cfg.Config
}

func NewR2Exporter(cfg cfg.Config) *R2Exporter {
	return &R2Exporter{config: cfg}
}

func (r *R2Exporter) r2Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.R2.AccessKey, r.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.R2.AccountID))
	}), nil
}

func (r *R2Exporter) ExportRunSummary(ctx context.Context, result *transfer.AnalyticsRunResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return err
	}

	suffix, err := gonanoid.New()
	if err != nil {
		return err
	}
	key := fmt.Sprintf("analytics-runs/%s-%s.json", time.Now().UTC().Format("20060102T150405"), suffix)

	client, err := r.r2Client(ctx)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}

	_, err = client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
