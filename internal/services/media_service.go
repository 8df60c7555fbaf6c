package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaStorage stores uploaded images and removes them when the owning row
// is deleted. Deletion is an explicit lifecycle hook invoked by the catalog
// and content services.
type MediaStorage interface {
	Upload(file *multipart.FileHeader, folder string) (url string, objectKey string, err error)
	Remove(objectKey string) error
}

type MediaConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type mediaService struct {
	client *minio.Client
	cfg    MediaConfig
}

func NewMediaService(cfg MediaConfig) (MediaStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check MinIO bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create MinIO bucket: %w", err)
		}
	}

	return &mediaService{client: client, cfg: cfg}, nil
}

func (s *mediaService) Upload(file *multipart.FileHeader, folder string) (string, string, error) {
	f, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	objectKey := folder + "/" + uuid.New().String() + filepath.Ext(file.Filename)

	_, err = s.client.PutObject(context.Background(), s.cfg.Bucket, objectKey, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload object: %w", err)
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, objectKey)
	return url, objectKey, nil
}

func (s *mediaService) Remove(objectKey string) error {
	if objectKey == "" {
		return nil
	}
	return s.client.RemoveObject(context.Background(), s.cfg.Bucket, objectKey, minio.RemoveObjectOptions{})
}
