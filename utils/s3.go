package utils

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DesignLinkTTL is the lifetime of presigned design links (the SigV4 maximum)
const DesignLinkTTL = 7 * 24 * time.Hour

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// DesignMirror copies customer designs to the merchant's own bucket
type DesignMirror struct {
	Bucket    string
	client    objectPutter
	presigner objectPresigner
}

// NewDesignMirror initializes the S3 client for bucket
func NewDesignMirror(ctx context.Context, region, bucket string) (*DesignMirror, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}
	client := s3.NewFromConfig(cfg)
	return &DesignMirror{
		Bucket:    bucket,
		client:    client,
		presigner: s3.NewPresignClient(client),
	}, nil
}

// DesignKey builds a unique object key for a shop's design
func DesignKey(shop, filename string) string {
	name := path.Base(filename)
	if name == "." || name == "/" || name == "" {
		name = "design.png"
	}
	return fmt.Sprintf("designs/%s/%s_%s", shop, uuid.NewString(), name)
}

// Upload stores the design and returns its object key
func (m *DesignMirror) Upload(ctx context.Context, shop, filename, contentType string, data []byte) (string, error) {
	key := DesignKey(shop, filename)
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload design to S3: %w", err)
	}
	return key, nil
}

// PresignedURL generates a time-limited GET URL for an object
func (m *DesignMirror) PresignedURL(ctx context.Context, key string) (string, error) {
	req, err := m.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(DesignLinkTTL))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	return req.URL, nil
}

// Mirror uploads the design and returns a presigned link to it
func (m *DesignMirror) Mirror(ctx context.Context, shop, filename, contentType string, data []byte) (string, error) {
	key, err := m.Upload(ctx, shop, filename, contentType, data)
	if err != nil {
		return "", err
	}
	return m.PresignedURL(ctx, key)
}
