package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nittanycraft/storefront/common"
)

var ErrNotConfigured = errors.New("stylize api is not configured")

// Stylizer proxies photos to the external stylization API that renders
// the laser engraving preview.
type Stylizer struct {
	httpClient *resty.Client
	apiURL     string
	apiKey     string
}

func NewStylizer() *Stylizer {
	return &Stylizer{
		httpClient: resty.New().SetTimeout(2 * time.Minute),
		apiURL:     common.GetEnv("STYLIZE_API_URL", ""),
		apiKey:     common.GetEnv("STYLIZE_API_KEY", ""),
	}
}

// Stylize submits an image and returns the rendered preview with its
// content type.
func (s *Stylizer) Stylize(ctx context.Context, data []byte, mimeType string) ([]byte, string, error) {
	if s.apiURL == "" {
		return nil, "", ErrNotConfigured
	}

	req := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", mimeType).
		SetBody(data)

	if s.apiKey != "" {
		req.SetHeader("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := req.Post(s.apiURL)
	if err != nil {
		return nil, "", err
	}

	if resp.IsError() {
		return nil, "", fmt.Errorf("stylize api responded with status %d", resp.StatusCode())
	}

	resultType := resp.Header().Get("Content-Type")
	if resultType == "" {
		resultType = "image/png"
	}

	return resp.Body(), resultType, nil
}
