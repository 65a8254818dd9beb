package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
)

// ErrUnsupportedMedia is returned for uploads whose content is not of the expected kind.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// MediaKind is the kind of content an upload field accepts.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// prefix is the key prefix objects of this kind are stored under.
func (k MediaKind) prefix() string {
	switch k {
	case MediaImage:
		return "images"
	case MediaVideo:
		return "videos"
	}
	return ""
}

type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage stores uploaded media in an S3-compatible bucket.
type S3Storage struct {
	uploader objectUploader
	deleter  objectDeleter
	prober   DurationProber
	bucket   string
	baseURL  string
}

// NewS3Storage configures an uploader targeting the provided object store.
func NewS3Storage(ctx context.Context, cfg config.ObjectStore, prober DurationProber) (*S3Storage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return newS3Storage(uploader, client, prober, cfg.Bucket, cfg.PublicBaseURL), nil
}

func newS3Storage(uploader objectUploader, deleter objectDeleter, prober DurationProber, bucket, baseURL string) *S3Storage {
	return &S3Storage{
		uploader: uploader,
		deleter:  deleter,
		prober:   prober,
		bucket:   bucket,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

// Upload sends the local file to the bucket and removes the local copy whatever the
// outcome. The detected content type must match kind. Video uploads report their
// duration in seconds.
func (s *S3Storage) Upload(ctx context.Context, localPath string, kind MediaKind) (models.StoredObject, error) {
	defer removeLocal(ctx, localPath)

	if strings.TrimSpace(localPath) == "" {
		return models.StoredObject{}, fmt.Errorf("s3 storage: empty path")
	}

	mime, err := mimetype.DetectFile(localPath)
	if err != nil {
		return models.StoredObject{}, fmt.Errorf("detect content type: %w", err)
	}

	prefix := kind.prefix()
	if prefix == "" || !strings.HasPrefix(mime.String(), string(kind)+"/") {
		return models.StoredObject{}, fmt.Errorf("%w: %s is not %s content", ErrUnsupportedMedia, mime.String(), kind)
	}

	var duration float64
	if kind == MediaVideo && s.prober != nil {
		duration, err = s.prober.Duration(ctx, localPath)
		if err != nil {
			return models.StoredObject{}, fmt.Errorf("probe video duration: %w", err)
		}
	}

	file, err := os.Open(localPath)
	if err != nil {
		return models.StoredObject{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), mime.Extension())
	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(mime.String()),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return models.StoredObject{}, fmt.Errorf("s3 storage upload %s: %w", key, err)
	}

	object := models.StoredObject{ID: key, Duration: duration}
	if out != nil {
		object.URL = out.Location
	}
	object.SecureURL = s.publicURL(key, object.URL)
	if object.URL == "" {
		object.URL = object.SecureURL
	}

	return object, nil
}

// Delete removes the stored object with the given id.
func (s *S3Storage) Delete(ctx context.Context, id string) error {
	key := strings.TrimLeft(id, "/")
	if key == "" {
		return fmt.Errorf("s3 storage: empty key")
	}

	if _, err := s.deleter.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 storage delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) publicURL(key, location string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	if strings.HasPrefix(location, "http://") {
		return "https://" + strings.TrimPrefix(location, "http://")
	}
	if location != "" {
		return location
	}
	return key
}

func removeLocal(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.FromContext(ctx).Warn("remove local upload", slog.String("path", path), slog.Any("error", err))
	}
}
