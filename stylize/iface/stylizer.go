package iface

import "context"

//go:generate mockery --name Stylizer --output ./mocks

// Stylizer renders a photo into its laser engraving preview.
type Stylizer interface {
	Stylize(ctx context.Context, data []byte, mimeType string) ([]byte, string, error)
}
