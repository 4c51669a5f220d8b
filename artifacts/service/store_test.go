package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCSStore_UploadNotConfigured(t *testing.T) {
	store := &GCSStore{}

	_, err := store.Upload(context.Background(), "temp/1/original.png", []byte("data"), "image/png")
	assert.ErrorIs(t, err, ErrStoreNotConfigured)
}
