// Package photos issues presigned S3 URLs for unload condition photos.
package photos

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"desicargo-backend/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Options struct {
	Bucket   string
	Region   string
	Endpoint string
	Expiry   time.Duration
}

// UploadURL is what a client needs to PUT a photo and reference it later.
type UploadURL struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Store struct {
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
	now     func() time.Time
}

// New loads the default AWS credential chain.
func New(ctx context.Context, opts Options) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	return NewWithConfig(cfg, opts), nil
}

func NewWithConfig(cfg aws.Config, opts Options) *Store {
	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			// LocalStack / MinIO
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	expiry := opts.Expiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Store{
		presign: s3.NewPresignClient(svc),
		bucket:  opts.Bucket,
		expiry:  expiry,
		now:     time.Now,
	}
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ObjectKey places a photo under its manifest and booking:
// unloading/<ogpl>/<booking>/<random>.<ext>
func ObjectKey(ogplID, bookingID uuid.UUID, contentType string) (string, error) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return "", apperr.Validation("content type %q is not an accepted image type", contentType)
	}
	return path.Join("unloading", ogplID.String(), bookingID.String(), uuid.NewString()+ext), nil
}

// GenerateUploadURL presigns a PUT for a new condition photo.
func (s *Store) GenerateUploadURL(ctx context.Context, ogplID, bookingID uuid.UUID, contentType string) (*UploadURL, error) {
	if s.bucket == "" {
		return nil, apperr.Validation("photo uploads are not configured")
	}
	key, err := ObjectKey(ogplID, bookingID, contentType)
	if err != nil {
		return nil, err
	}

	res, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return nil, apperr.Persistence(err, fmt.Sprintf("could not presign upload for %s", key))
	}

	return &UploadURL{URL: res.URL, Key: key, ExpiresAt: s.now().Add(s.expiry)}, nil
}
