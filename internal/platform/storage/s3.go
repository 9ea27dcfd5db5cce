package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	portssvc "github.com/VidMosaic/vid_mosaic_app/internal/core/ports/services"
	"github.com/VidMosaic/vid_mosaic_app/internal/platform/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3MediaUploader stores avatars and cover images in an S3-compatible bucket
// (AWS S3 proper, or MinIO in development via S3_BASE_ENDPOINT).
type S3MediaUploader struct {
	client        *s3.Client
	bucket        string
	region        string
	publicBaseURL string
}

var _ portssvc.MediaUploader = (*S3MediaUploader)(nil)

// NewS3MediaUploader builds the S3 client from application config.
func NewS3MediaUploader(ctx context.Context, cfg *config.Config) (*S3MediaUploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			// MinIO and most S3-compatible stores require path-style addressing.
			o.UsePathStyle = true
		}
	})

	return &S3MediaUploader{
		client:        client,
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		publicBaseURL: strings.TrimSuffix(cfg.S3PublicBaseURL, "/"),
	}, nil
}

// Upload puts the object under a UUID key in the given folder and returns its
// public URL. Failures surface to the caller as-is; the core never retries.
func (u *S3MediaUploader) Upload(ctx context.Context, folder string, file *portssvc.FileUpload) (string, error) {
	if file == nil || file.Reader == nil {
		return "", fmt.Errorf("no file provided for upload")
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), path.Ext(file.Filename))

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   file.Reader,
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return u.objectURL(key), nil
}

func (u *S3MediaUploader) objectURL(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
