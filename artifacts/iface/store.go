package iface

import "context"

//go:generate mockery --name BlobStore --output ./mocks
type BlobStore interface {
	// Upload persists data under objectName and returns the public URL it is
	// reachable at.
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}
