package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const publicURLPrefix = "https://storage.googleapis.com/"

type GCSConfig struct {
	Bucket          string
	CredentialsJSON string
	CredentialsPath string
}

// ImageStore writes public images to a Cloud Storage bucket.
type ImageStore struct {
	client     *storage.Client
	bucketName string
}

func NewImageStore(ctx context.Context, cfg GCSConfig) (*ImageStore, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &ImageStore{
		client:     client,
		bucketName: cfg.Bucket,
	}, nil
}

// ObjectName builds folder/<uuid>-<timestamp>.<ext> for a content type.
func ObjectName(folder, contentType string, now time.Time) string {
	name := fmt.Sprintf("%s/%s-%s", strings.Trim(folder, "/"), uuid.New().String(), now.Format("20060102150405"))

	switch contentType {
	case "image/jpeg", "image/jpg":
		return name + ".jpg"
	case "image/png":
		return name + ".png"
	case "image/gif":
		return name + ".gif"
	case "image/webp":
		return name + ".webp"
	default:
		return name + ".bin"
	}
}

func (s *ImageStore) Upload(ctx context.Context, r io.Reader, contentType, folder string) (string, error) {
	filename := ObjectName(folder, contentType, time.Now())

	obj := s.client.Bucket(s.bucketName).Object(filename)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400" // 1 day caching

	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	return publicURLPrefix + s.bucketName + "/" + filename, nil
}

// ObjectFromURL extracts the object name from a public URL in bucket.
func ObjectFromURL(bucket, fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, publicURLPrefix) {
		return "", fmt.Errorf("invalid GCS URL format")
	}

	parts := strings.SplitN(strings.TrimPrefix(fileURL, publicURLPrefix), "/", 2)
	if len(parts) != 2 || parts[0] != bucket || parts[1] == "" {
		return "", fmt.Errorf("invalid GCS URL format or bucket mismatch")
	}
	return parts[1], nil
}

func (s *ImageStore) Delete(ctx context.Context, fileURL string) error {
	objectName, err := ObjectFromURL(s.bucketName, fileURL)
	if err != nil {
		return err
	}

	if err := s.client.Bucket(s.bucketName).Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func (s *ImageStore) Close() error {
	return s.client.Close()
}
