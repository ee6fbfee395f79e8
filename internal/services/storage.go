package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService persists audio blobs in an S3-compatible object store and
// resolves them back to retrievable bytes or URLs.
type StorageService interface {
	SaveAudio(ctx context.Context, r io.Reader, size int64, filename string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	FileURL(ctx context.Context, key string) (string, error)
}

type storageService struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewStorageService(endpoint, accessKeyID, secretAccessKey, bucket, publicURL string, useSSL bool) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &storageService{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// SaveAudio implements StorageService. The object key is a fresh UUID plus
// the original file extension, defaulting to .webm.
func (s *storageService) SaveAudio(ctx context.Context, r io.Reader, size int64, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".webm"
	}

	key := fmt.Sprintf("audio/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentTypeForExt(ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to save audio: %w", err)
	}

	return key, nil
}

// Download implements StorageService.
func (s *storageService) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer obj.Close()

	content, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}

	return content, nil
}

// Delete implements StorageService.
func (s *storageService) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// FileURL implements StorageService. When a public base URL is configured
// it is used directly, otherwise a presigned URL valid for one hour is
// generated.
func (s *storageService) FileURL(ctx context.Context, key string) (string, error) {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, key), nil
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}

	return u.String(), nil
}

func contentTypeForExt(ext string) string {
	switch ext {
	case ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	default:
		return "audio/webm"
	}
}
