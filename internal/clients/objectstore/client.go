package objectstore

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"data-processor/internal/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNoBucket = errors.New("no storage bucket configured")

// Config holds object storage settings
type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// Client uploads files to S3-compatible object storage
type Client struct {
	cfg    Config
	logger *observability.Logger

	once     sync.Once
	s3Client *s3.Client
	initErr  error
}

// New creates a new object storage client. The underlying SDK client is
// initialized lazily on first upload.
func New(cfg Config, logger *observability.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// IsEnabled returns true if a default bucket is configured
func (c *Client) IsEnabled() bool {
	return c.cfg.Bucket != ""
}

// client initializes the SDK client on first use. Explicit static
// credentials win when both keys are configured; otherwise the SDK default
// resolver chain applies (environment, shared config files, container or
// instance identity, in that order).
func (c *Client) client(ctx context.Context) (*s3.Client, error) {
	c.once.Do(func() {
		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(c.cfg.Region),
		}
		if c.cfg.AccessKeyID != "" && c.cfg.SecretAccessKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(c.cfg.AccessKeyID, c.cfg.SecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			c.initErr = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		c.s3Client = s3.NewFromConfig(awsCfg)
	})
	return c.s3Client, c.initErr
}

// Upload stores a local file under the given bucket and key. Bucket falls
// back to the configured default and key to the file's base name. Without a
// bucket from either source the call fails before any network I/O.
func (c *Client) Upload(ctx context.Context, filePath, bucket, key string) error {
	if bucket == "" {
		bucket = c.cfg.Bucket
	}
	if bucket == "" {
		return ErrNoBucket
	}
	if key == "" {
		key = filepath.Base(filePath)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "bucket", Value: bucket},
		observability.Field{Key: "object_key", Value: key},
	)

	s3Client, err := c.client(ctx)
	if err != nil {
		c.logger.Error(ctx, "failed to initialize object storage client", err)
		return err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		c.logger.Error(ctx, "failed to upload object", err)
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	c.logger.Info(ctx, "uploaded object")
	return nil
}
