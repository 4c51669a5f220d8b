package service

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/nittanycraft/storefront/common"
)

var ErrStoreNotConfigured = errors.New("artifact storage is not configured")

// GCSStore persists order artifacts as publicly readable objects in a
// Cloud Storage bucket. The bucket name is resolved from the environment
// at upload time so a missing configuration surfaces as an operation
// error rather than a startup failure.
type GCSStore struct {
	bucketName string
}

func NewGCSStore() *GCSStore {
	return &GCSStore{
		bucketName: common.GetEnv("ARTIFACTS_BUCKET", ""),
	}
}

func (s *GCSStore) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	if s.bucketName == "" {
		return "", ErrStoreNotConfigured
	}

	gcs, err := storage.NewClient(ctx)
	if err != nil {
		return "", err
	}

	defer gcs.Close()

	obj := gcs.Bucket(s.bucketName).Object(objectName)
	objWriter := obj.NewWriter(ctx)
	objWriter.ContentType = contentType
	objWriter.PredefinedACL = "publicRead"

	if _, err := objWriter.Write(data); err != nil {
		_ = objWriter.Close()
		return "", err
	}

	if err := objWriter.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName), nil
}
