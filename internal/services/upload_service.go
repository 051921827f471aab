package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/config"
)

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// ObjectPutter is the part of the S3 client the upload proxy needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// UploadServiceProvider defines the interface for upload services.
type UploadServiceProvider interface {
	Upload(ctx context.Context, userID, filename string, r io.Reader) (string, error)
}

// UploadService stores user images in an S3 compatible bucket.
type UploadService struct {
	client     ObjectPutter
	bucket     string
	region     string
	endpoint   string
	publicBase string
	maxBytes   int64
	now        func() time.Time
}

// NewS3Client builds an S3 client from the application config. Static
// credentials are used when an access key is configured, otherwise the
// default AWS credential chain applies. A custom endpoint switches to
// path-style addressing for MinIO and friends.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewUploadService creates a new UploadService.
func NewUploadService(client ObjectPutter, cfg *config.Config) *UploadService {
	return &UploadService{
		client:     client,
		bucket:     cfg.S3Bucket,
		region:     cfg.S3Region,
		endpoint:   strings.TrimRight(cfg.S3Endpoint, "/"),
		publicBase: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
		maxBytes:   cfg.UploadMaxBytes,
		now:        time.Now,
	}
}

// Upload stores an image for userID and returns its public URL. Non-image
// content and files over the size limit fail with common.ErrValidation.
func (s *UploadService) Upload(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", common.ErrValidation)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", common.ErrValidation, s.maxBytes)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: only images can be uploaded", common.ErrValidation)
	}

	key := s.objectKey(userID, filename, contentType)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}

	return s.publicURL(key), nil
}

// objectKey returns uploads/<user>/<yyyy>/<mm>/<uuid><ext>.
func (s *UploadService) objectKey(userID, filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	now := s.now().UTC()
	return fmt.Sprintf("uploads/%s/%04d/%02d/%s%s", userID, now.Year(), int(now.Month()), uuid.New(), ext)
}

func (s *UploadService) publicURL(key string) string {
	switch {
	case s.publicBase != "":
		return s.publicBase + "/" + key
	case s.endpoint != "":
		return s.endpoint + "/" + s.bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}
