package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
)

func TestStylizer_Stylize(t *testing.T) {
	rendered := []byte("rendered-image")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(rendered)
	}))
	defer server.Close()

	s := &Stylizer{
		httpClient: resty.New().SetTimeout(5 * time.Second),
		apiURL:     server.URL,
		apiKey:     "test-key",
	}

	result, mimeType, err := s.Stylize(context.Background(), []byte("photo"), "image/jpeg")

	assert.NoError(t, err)
	assert.Equal(t, rendered, result)
	assert.Equal(t, "image/png", mimeType)
}

func TestStylizer_StylizeNotConfigured(t *testing.T) {
	s := &Stylizer{httpClient: resty.New()}

	_, _, err := s.Stylize(context.Background(), []byte("photo"), "image/jpeg")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStylizer_StylizeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := &Stylizer{
		httpClient: resty.New().SetTimeout(5 * time.Second),
		apiURL:     server.URL,
	}

	_, _, err := s.Stylize(context.Background(), []byte("photo"), "image/jpeg")
	assert.Error(t, err)
}
