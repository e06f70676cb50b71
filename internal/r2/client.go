package r2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"linguaquiz/internal/kv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Settings for reaching a Cloudflare R2 bucket
type Settings struct {
	AccountID       string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Prefix is prepended to every object key, e.g. "linguaquiz/"
	Prefix string
}

// Client stores each key as one JSON object in an R2 (S3-compatible) bucket
type Client struct {
	s3Client   *s3.Client
	bucketName string
	prefix     string
}

var _ kv.Store = (*Client)(nil)

// NewClient creates and configures a new R2 client instance
func NewClient(ctx context.Context, s Settings) (*Client, error) {
	if s.AccountID == "" || s.Bucket == "" || s.AccessKeyID == "" || s.SecretAccessKey == "" {
		return nil, fmt.Errorf("cloudflare R2 settings not fully configured (account id, bucket, access key id, secret access key)")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, "")),
		config.WithRegion("auto"), // R2 is region-agnostic
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	// R2 endpoint format: https://<ACCOUNT_ID>.r2.cloudflarestorage.com
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.AccountID)
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		// R2 rejects the default trailing checksums on streamed uploads
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return New(s3Client, s.Bucket, s.Prefix), nil
}

// New wraps an existing S3 client
func New(s3Client *s3.Client, bucket, prefix string) *Client {
	return &Client{s3Client: s3Client, bucketName: bucket, prefix: prefix}
}

func (c *Client) objectKey(key string) string {
	return c.prefix + key + ".json"
}

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	if err := kv.CheckKey(key); err != nil {
		return "", false, err
	}
	objectKey := c.objectKey(key)

	out, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objectKey),
	})
	if isNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read object from R2 (key: %s): %w", objectKey, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false, fmt.Errorf("failed to read object body from R2 (key: %s): %w", objectKey, err)
	}
	return string(b), true, nil
}

func (c *Client) Set(ctx context.Context, key, value string) error {
	if err := kv.CheckKey(key); err != nil {
		return err
	}
	objectKey := c.objectKey(key)

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        strings.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to R2 (key: %s): %w", objectKey, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	if err := kv.CheckKey(key); err != nil {
		return err
	}
	objectKey := c.objectKey(key)

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete object from R2 (key: %s): %w", objectKey, err)
	}
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
