package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, objectName, data, contentType)
	return args.String(0), args.Error(1)
}

func NewBlobStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *BlobStore {
	m := &BlobStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
