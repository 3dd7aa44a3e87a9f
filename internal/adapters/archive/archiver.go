package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fieldbooking/internal/domain"
)

// S3Config holds the bucket settings for the s3 provider. Endpoint and
// UsePathStyle allow S3-compatible stores such as MinIO or R2.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Config selects the archive provider.
type Config struct {
	Provider string
	S3       S3Config
}

// objectPutter is the subset of *s3.Client used here.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewArchiver creates an archiver from config. Provider "s3" writes one JSON
// object per event; "noop" or unknown discards events.
func NewArchiver(ctx context.Context, cfg Config, logger *slog.Logger) (domain.Archiver, error) {
	switch cfg.Provider {
	case "s3":
		s3cfg := cfg.S3
		if s3cfg.Bucket == "" {
			return nil, errors.New("archive: s3 bucket is required")
		}
		opts := []func(*config.LoadOptions) error{config.WithRegion(s3cfg.Region)}
		if s3cfg.AccessKeyID != "" {
			opts = append(opts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, ""),
			))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if s3cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			}
			o.UsePathStyle = s3cfg.UsePathStyle
		})
		return newS3Archiver(client, s3cfg.Bucket, s3cfg.Prefix), nil
	case "noop", "":
		return &noopArchiver{logger: logger}, nil
	default:
		logger.Warn("unknown archive provider, using noop", "provider", cfg.Provider)
		return &noopArchiver{logger: logger}, nil
	}
}

type s3Archiver struct {
	client objectPutter
	bucket string
	prefix string
}

func newS3Archiver(client objectPutter, bucket, prefix string) *s3Archiver {
	return &s3Archiver{client: client, bucket: bucket, prefix: prefix}
}

// objectKey places events under <prefix>/events/<yyyy>/<mm>/<dd>/<id>.json by
// scheduled date.
func (a *s3Archiver) objectKey(ev *domain.Event) string {
	return path.Join(a.prefix, "events", ev.ScheduledAt.UTC().Format("2006/01/02"), ev.ID+".json")
}

func (a *s3Archiver) Archive(ctx context.Context, ev *domain.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", ev.ID, err)
	}
	key := a.objectKey(ev)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return domain.WrapTransient(fmt.Sprintf("upload %s", key), err)
	}
	return nil
}

type noopArchiver struct {
	logger *slog.Logger
}

func (a *noopArchiver) Archive(ctx context.Context, ev *domain.Event) error {
	a.logger.DebugContext(ctx, "archive skipped", "event_id", ev.ID, "status", ev.Status.String())
	return nil
}
