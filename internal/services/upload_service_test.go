package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/isdelr/socialsync-api/internal/common"
	"github.com/isdelr/socialsync-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func uploadConfig() *config.Config {
	return &config.Config{
		S3Bucket:       "bucket",
		S3Region:       "eu-west-1",
		UploadMaxBytes: 64,
	}
}

func TestUpload_StoresImage(t *testing.T) {
	putter := &fakePutter{}
	svc := NewUploadService(putter, uploadConfig())
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }

	url, err := svc.Upload(context.Background(), "u1", "Cake.PNG", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	require.NotNil(t, putter.in)
	assert.Equal(t, "bucket", aws.ToString(putter.in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(putter.in.ContentType))
	assert.Regexp(t, `^uploads/u1/2026/03/[0-9a-f-]{36}\.png$`, aws.ToString(putter.in.Key))
	assert.Equal(t, pngHeader, putter.body)
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com/"+aws.ToString(putter.in.Key), url)
}

func TestUpload_PublicURL(t *testing.T) {
	cfg := uploadConfig()
	cfg.S3Endpoint = "http://minio:9000/"
	putter := &fakePutter{}

	url, err := NewUploadService(putter, cfg).Upload(context.Background(), "u1", "a.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/bucket/"+aws.ToString(putter.in.Key), url)

	cfg.S3PublicBaseURL = "https://cdn.example.com/"
	url, err = NewUploadService(putter, cfg).Upload(context.Background(), "u1", "a.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+aws.ToString(putter.in.Key), url)
}

func TestUpload_Rejections(t *testing.T) {
	putter := &fakePutter{}
	svc := NewUploadService(putter, uploadConfig())

	_, err := svc.Upload(context.Background(), "u1", "notes.txt", bytes.NewReader([]byte("just some text")))
	assert.ErrorIs(t, err, common.ErrValidation)

	big := append(append([]byte{}, pngHeader...), make([]byte, 100)...)
	_, err = svc.Upload(context.Background(), "u1", "big.png", bytes.NewReader(big))
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Upload(context.Background(), "u1", "empty.png", bytes.NewReader(nil))
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.Nil(t, putter.in)
}

func TestUpload_StorageFailure(t *testing.T) {
	boom := errors.New("access denied")
	svc := NewUploadService(&fakePutter{err: boom}, uploadConfig())

	_, err := svc.Upload(context.Background(), "u1", "a.png", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrValidation)
}

func TestNewS3Client_AppliesConfig(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	var lo awsconfig.LoadOptions
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{Region: lo.Region}, nil
	}

	cfg := uploadConfig()
	cfg.S3Endpoint = "http://minio:9000"
	cfg.S3AccessKey = "key"
	cfg.S3SecretKey = "secret"

	client, err := NewS3Client(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "eu-west-1", lo.Region)
	require.NotNil(t, lo.Credentials)

	creds, err := lo.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key", creds.AccessKeyID)

	opts := client.Options()
	assert.Equal(t, "http://minio:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Client_LoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Client(context.Background(), uploadConfig())
	assert.Error(t, err)
}
