package service

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v74"

	storeMocks "github.com/nittanycraft/storefront/artifacts/iface/mocks"
	"github.com/nittanycraft/storefront/checkout/domain"
	"github.com/nittanycraft/storefront/logger"
)

func newTestWebhookService(store *storeMocks.BlobStore) *WebhookService {
	return &WebhookService{
		loggerProvider: logger.FromContext,
		stripeClient:   NewClientWithSessions(nil, testSignKey),
		store:          store,
		httpClient:     resty.New().SetTimeout(5 * time.Second),
	}
}

func TestReconcilePrice(t *testing.T) {
	tests := []struct {
		name    string
		session *stripe.CheckoutSession
		want    float64
		wantErr error
	}{
		{
			name:    "amount total wins",
			session: &stripe.CheckoutSession{AmountTotal: 5500, Metadata: map[string]string{"price": "50.00"}},
			want:    55,
		},
		{
			name:    "zero total falls back to metadata",
			session: &stripe.CheckoutSession{AmountTotal: 0, Metadata: map[string]string{"price": "50.00"}},
			want:    50,
		},
		{
			name:    "no price anywhere",
			session: &stripe.CheckoutSession{},
			wantErr: ErrPriceNotFound,
		},
		{
			name:    "unparseable metadata price",
			session: &stripe.CheckoutSession{Metadata: map[string]string{"price": "a lot"}},
			wantErr: ErrPriceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := reconcilePrice(tt.session)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, price)
		})
	}
}

func TestReconcileEmail(t *testing.T) {
	assert.Equal(t, "direct@example.com", reconcileEmail(&stripe.CheckoutSession{
		CustomerEmail:   "direct@example.com",
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "details@example.com"},
	}))

	assert.Equal(t, "details@example.com", reconcileEmail(&stripe.CheckoutSession{
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "details@example.com"},
	}))

	assert.Equal(t, "padded@example.com", reconcileEmail(&stripe.CheckoutSession{
		CustomerEmail: "  padded@example.com  ",
	}))

	assert.Empty(t, reconcileEmail(&stripe.CheckoutSession{
		CustomerEmail: "   ",
	}))

	assert.Empty(t, reconcileEmail(&stripe.CheckoutSession{}))
}

func TestReconcileShipping(t *testing.T) {
	address := &stripe.Address{
		Line1:      "123 College Ave",
		City:       "State College",
		State:      "PA",
		PostalCode: "16801",
		Country:    "US",
	}

	t.Run("shipping details win", func(t *testing.T) {
		session := &stripe.CheckoutSession{
			ShippingDetails: &stripe.ShippingDetails{Name: "Pat Buyer", Address: address},
			CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Name: "Other Name", Address: address},
		}

		got := reconcileShipping(session, &sessionExtras{})

		assert.Equal(t, "Pat Buyer", got.Name)
		assert.Equal(t, "123 College Ave", got.Line1)
	})

	t.Run("collected information from raw response", func(t *testing.T) {
		session := &stripe.CheckoutSession{}
		session.LastResponse = &stripe.APIResponse{
			RawJSON: []byte(`{"collected_information":{"shipping_details":{"name":"Raw Buyer","address":{"line1":"1 Curtin Rd","city":"University Park","state":"PA","postal_code":"16802","country":"US"}}}}`),
		}

		got := reconcileShipping(session, decodeSessionExtras(session))

		assert.Equal(t, "Raw Buyer", got.Name)
		assert.Equal(t, "1 Curtin Rd", got.Line1)
		assert.Equal(t, "16802", got.PostalCode)
	})

	t.Run("customer details address fallback", func(t *testing.T) {
		session := &stripe.CheckoutSession{
			CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Name: "Pat Buyer", Address: address},
		}

		got := reconcileShipping(session, &sessionExtras{})

		assert.Equal(t, "Pat Buyer", got.Name)
	})

	t.Run("no address anywhere", func(t *testing.T) {
		assert.Nil(t, reconcileShipping(&stripe.CheckoutSession{}, &sessionExtras{}))
	})
}

func TestWebhookService_reconcileOrder(t *testing.T) {
	imageBytes := []byte{0x89, 'P', 'N', 'G'}

	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(imageBytes)
	}))
	defer imageServer.Close()

	t.Run("url artifacts are fetched", func(t *testing.T) {
		s := newTestWebhookService(&storeMocks.BlobStore{})

		session := &stripe.CheckoutSession{
			ID:            "cs_test_123",
			AmountTotal:   5000,
			CustomerEmail: "buyer@example.com",
			Metadata: map[string]string{
				domain.MetadataKeyOrderType:    string(domain.OrderTypeCustomEngraving),
				domain.MetadataKeyOriginalURL:  imageServer.URL + "/orders/cs_test_123/original.png",
				domain.MetadataKeyProcessedURL: imageServer.URL + "/orders/cs_test_123/processed.png",
			},
		}

		order, images, err := s.reconcileOrder(context.Background(), session)

		assert.NoError(t, err)
		assert.Equal(t, "cs_test_123", order.OrderID)
		assert.Equal(t, domain.OrderTypeCustomEngraving, order.OrderType)
		assert.Equal(t, 50.0, order.Price)
		assert.Equal(t, "buyer@example.com", order.CustomerEmail)
		assert.Equal(t, imageBytes, order.Original.Data)
		assert.Equal(t, imageBytes, order.Processed.Data)
		assert.NotNil(t, images)
		assert.False(t, images.Repaired)
	})

	t.Run("unreachable artifact keeps its url", func(t *testing.T) {
		s := newTestWebhookService(&storeMocks.BlobStore{})

		session := &stripe.CheckoutSession{
			ID:          "cs_test_124",
			AmountTotal: 5000,
			Metadata: map[string]string{
				domain.MetadataKeyOriginalURL: imageServer.URL + "/missing.png",
			},
		}

		order, images, err := s.reconcileOrder(context.Background(), session)

		assert.NoError(t, err)
		assert.Empty(t, order.Original.Data)
		assert.Equal(t, imageServer.URL+"/missing.png", images.OriginalURL)
	})

	t.Run("legacy inline artifacts are repaired", func(t *testing.T) {
		store := &storeMocks.BlobStore{}
		store.On("Upload", mock.Anything, "orders/cs_test_125/original.png", imageBytes, "image/png").
			Return("https://storage.googleapis.com/bucket/orders/cs_test_125/original.png", nil)

		s := newTestWebhookService(store)

		session := &stripe.CheckoutSession{
			ID:          "cs_test_125",
			AmountTotal: 5000,
			Metadata: map[string]string{
				domain.MetadataKeyLegacyOriginalImage: "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBytes),
			},
		}

		order, images, err := s.reconcileOrder(context.Background(), session)

		assert.NoError(t, err)
		assert.True(t, images.Repaired)
		assert.Equal(t, "https://storage.googleapis.com/bucket/orders/cs_test_125/original.png", order.Original.URL)
		store.AssertExpectations(t)
	})

	t.Run("missing price fails reconciliation", func(t *testing.T) {
		s := newTestWebhookService(&storeMocks.BlobStore{})

		_, _, err := s.reconcileOrder(context.Background(), &stripe.CheckoutSession{ID: "cs_test_126"})
		assert.ErrorIs(t, err, ErrPriceNotFound)
	})

	t.Run("custom order with no recoverable images is rejected", func(t *testing.T) {
		s := newTestWebhookService(&storeMocks.BlobStore{})

		session := &stripe.CheckoutSession{
			ID:          "cs_test_127",
			AmountTotal: 5000,
			Metadata: map[string]string{
				domain.MetadataKeyOrderType: string(domain.OrderTypeCustomEngraving),
			},
		}

		_, _, err := s.reconcileOrder(context.Background(), session)
		assert.ErrorIs(t, err, ErrMissingImageData)
	})

	t.Run("fixed product order needs no images", func(t *testing.T) {
		s := newTestWebhookService(&storeMocks.BlobStore{})

		session := &stripe.CheckoutSession{
			ID:          "cs_test_128",
			AmountTotal: 3000,
			Created:     1767225600,
			Metadata: map[string]string{
				domain.MetadataKeyOrderType: string(domain.OrderTypeOldMainClassic),
			},
		}

		order, images, err := s.reconcileOrder(context.Background(), session)

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderTypeOldMainClassic, order.OrderType)
		assert.Equal(t, int64(1767225600), order.Created.Unix())
		assert.Nil(t, images)
	})

	t.Run("temp urls are reconciled verbatim with no store writes", func(t *testing.T) {
		store := &storeMocks.BlobStore{}
		s := newTestWebhookService(store)

		originalURL := imageServer.URL + "/temp/1-abcd/original.png"
		processedURL := imageServer.URL + "/temp/1-abcd/processed.png"

		session := &stripe.CheckoutSession{
			ID:          "cs_test_129",
			AmountTotal: 5000,
			Metadata: map[string]string{
				domain.MetadataKeyOrderType:    string(domain.OrderTypeCustomEngraving),
				domain.MetadataKeyOriginalURL:  originalURL,
				domain.MetadataKeyProcessedURL: processedURL,
			},
		}

		_, images, err := s.reconcileOrder(context.Background(), session)

		assert.NoError(t, err)
		assert.Equal(t, originalURL, images.OriginalURL)
		assert.Equal(t, processedURL, images.ProcessedURL)
		assert.False(t, images.Repaired)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
