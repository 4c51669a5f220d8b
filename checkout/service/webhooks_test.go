package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"

	storeMocks "github.com/nittanycraft/storefront/artifacts/iface/mocks"
	"github.com/nittanycraft/storefront/checkout/domain"
	"github.com/nittanycraft/storefront/checkout/iface/mocks"
	"github.com/nittanycraft/storefront/logger"
	notifyDomain "github.com/nittanycraft/storefront/notification/domain"
	notifyMocks "github.com/nittanycraft/storefront/notification/iface/mocks"
)

const testSignKey = "whsec_test_secret"

func signedPayload(t *testing.T, body string) ([]byte, string) {
	t.Helper()

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(body),
		Secret:    testSignKey,
		Timestamp: time.Now(),
	})

	return signed.Payload, signed.Header
}

func eventBody(eventType, sessionJSON string) string {
	return fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":"2022-11-15","type":"%s","data":{"object":%s}}`, eventType, sessionJSON)
}

func TestWebhookService_HandleEvent(t *testing.T) {
	t.Run("missing signature", func(t *testing.T) {
		s := newTestWebhookService(&storeMocks.BlobStore{})

		_, err := s.HandleEvent(context.Background(), []byte("{}"), "")
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("bad signature", func(t *testing.T) {
		s := newTestWebhookService(&storeMocks.BlobStore{})

		_, err := s.HandleEvent(context.Background(), []byte("{}"), "t=1,v1=deadbeef")
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("webhook secret not configured", func(t *testing.T) {
		s := &WebhookService{
			loggerProvider: logger.FromContext,
			stripeClient:   NewClientWithSessions(nil, ""),
		}

		_, err := s.HandleEvent(context.Background(), []byte("{}"), "t=1,v1=deadbeef")
		assert.ErrorIs(t, err, ErrWebhookNotConfigured)
	})

	t.Run("unrelated event types are acknowledged", func(t *testing.T) {
		s := newTestWebhookService(&storeMocks.BlobStore{})

		body, header := signedPayload(t, eventBody("payment_intent.succeeded", `{"id":"pi_1"}`))

		summary, err := s.HandleEvent(context.Background(), body, header)

		assert.NoError(t, err)
		assert.True(t, summary.Received)
		assert.False(t, summary.Success)
		assert.Empty(t, summary.OrderID)
	})

	t.Run("completed session is reconciled and notified", func(t *testing.T) {
		// The artifact host is unreachable, recovery keeps the URLs as-is.
		originalURL := "http://127.0.0.1:9/temp/1-abcd/original.png"
		processedURL := "http://127.0.0.1:9/temp/1-abcd/processed.png"

		fullSession := &stripe.CheckoutSession{
			ID:            "cs_test_123",
			AmountTotal:   5000,
			CustomerEmail: "buyer@example.com",
			Metadata: map[string]string{
				domain.MetadataKeyOrderType:    string(domain.OrderTypeCustomEngraving),
				domain.MetadataKeyOriginalURL:  originalURL,
				domain.MetadataKeyProcessedURL: processedURL,
			},
			ShippingDetails: &stripe.ShippingDetails{
				Name: "Pat Buyer",
				Address: &stripe.Address{
					Line1:      "123 College Ave",
					City:       "State College",
					State:      "PA",
					PostalCode: "16801",
					Country:    "US",
				},
			},
		}

		sessions := &mocks.CheckoutSessions{}
		sessions.On("Get", "cs_test_123", (*stripe.CheckoutSessionParams)(nil)).Return(fullSession, nil)

		notifier := &notifyMocks.Dispatcher{}
		notifier.On("Send", mock.Anything, mock.MatchedBy(func(order *domain.ReconciledOrder) bool {
			return order.OrderID == "cs_test_123" &&
				order.Price == 50.0 &&
				order.CustomerEmail == "buyer@example.com" &&
				order.Shipping != nil && order.Shipping.City == "State College"
		})).Return(notifyDomain.Result{Success: true, Sent: 2})

		store := &storeMocks.BlobStore{}

		s := &WebhookService{
			loggerProvider: logger.FromContext,
			stripeClient:   NewClientWithSessions(sessions, testSignKey),
			store:          store,
			notifier:       notifier,
			httpClient:     resty.New().SetTimeout(5 * time.Second),
		}

		body, header := signedPayload(t, eventBody(checkoutSessionCompleted, `{"id":"cs_test_123"}`))

		summary, err := s.HandleEvent(context.Background(), body, header)

		assert.NoError(t, err)
		assert.True(t, summary.Received)
		assert.True(t, summary.Success)
		assert.Equal(t, "cs_test_123", summary.OrderID)
		assert.Equal(t, domain.OrderTypeCustomEngraving, summary.OrderType)
		assert.Equal(t, 2, summary.Email.Sent)
		assert.Equal(t, originalURL, summary.Images.OriginalURL)
		assert.Equal(t, processedURL, summary.Images.ProcessedURL)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		sessions.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("custom order without recoverable images fails the delivery", func(t *testing.T) {
		sessions := &mocks.CheckoutSessions{}
		sessions.On("Get", "cs_test_150", (*stripe.CheckoutSessionParams)(nil)).
			Return(&stripe.CheckoutSession{
				ID:          "cs_test_150",
				AmountTotal: 5000,
				Metadata:    map[string]string{domain.MetadataKeyOrderType: string(domain.OrderTypeCustomEngraving)},
			}, nil)

		notifier := &notifyMocks.Dispatcher{}

		s := &WebhookService{
			loggerProvider: logger.FromContext,
			stripeClient:   NewClientWithSessions(sessions, testSignKey),
			store:          &storeMocks.BlobStore{},
			notifier:       notifier,
			httpClient:     resty.New().SetTimeout(5 * time.Second),
		}

		body, header := signedPayload(t, eventBody(checkoutSessionCompleted, `{"id":"cs_test_150"}`))

		_, err := s.HandleEvent(context.Background(), body, header)

		assert.ErrorIs(t, err, ErrMissingImageData)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("refetch failure falls back to event payload", func(t *testing.T) {
		sessions := &mocks.CheckoutSessions{}
		sessions.On("Get", "cs_test_200", (*stripe.CheckoutSessionParams)(nil)).
			Return(nil, fmt.Errorf("api unavailable"))

		notifier := &notifyMocks.Dispatcher{}
		notifier.On("Send", mock.Anything, mock.AnythingOfType("*domain.ReconciledOrder")).
			Return(notifyDomain.Result{Success: true, Skipped: true})

		s := &WebhookService{
			loggerProvider: logger.FromContext,
			stripeClient:   NewClientWithSessions(sessions, testSignKey),
			store:          &storeMocks.BlobStore{},
			notifier:       notifier,
			httpClient:     resty.New().SetTimeout(5 * time.Second),
		}

		body, header := signedPayload(t, eventBody(checkoutSessionCompleted, `{"id":"cs_test_200","amount_total":3000,"metadata":{"orderType":"old-main-classic"}}`))

		summary, err := s.HandleEvent(context.Background(), body, header)

		assert.NoError(t, err)
		assert.True(t, summary.Success)
		assert.Equal(t, "cs_test_200", summary.OrderID)
	})

	t.Run("notification failure is reported but acknowledged", func(t *testing.T) {
		sessions := &mocks.CheckoutSessions{}
		sessions.On("Get", "cs_test_300", (*stripe.CheckoutSessionParams)(nil)).
			Return(&stripe.CheckoutSession{
				ID:          "cs_test_300",
				AmountTotal: 3000,
				Metadata:    map[string]string{domain.MetadataKeyOrderType: string(domain.OrderTypeOldMainClassic)},
			}, nil)

		notifier := &notifyMocks.Dispatcher{}
		notifier.On("Send", mock.Anything, mock.AnythingOfType("*domain.ReconciledOrder")).
			Return(notifyDomain.Result{Success: false, Failed: 2, Error: "smtp down"})

		s := &WebhookService{
			loggerProvider: logger.FromContext,
			stripeClient:   NewClientWithSessions(sessions, testSignKey),
			store:          &storeMocks.BlobStore{},
			notifier:       notifier,
			httpClient:     resty.New().SetTimeout(5 * time.Second),
		}

		body, header := signedPayload(t, eventBody(checkoutSessionCompleted, `{"id":"cs_test_300"}`))

		summary, err := s.HandleEvent(context.Background(), body, header)

		assert.NoError(t, err)
		assert.True(t, summary.Received)
		assert.False(t, summary.Success)
		assert.Equal(t, "smtp down", summary.Email.Error)
	})
}
