package service

import (
	"time"

	"github.com/go-resty/resty/v2"

	artifactsIface "github.com/nittanycraft/storefront/artifacts/iface"
	"github.com/nittanycraft/storefront/logger"
	notificationIface "github.com/nittanycraft/storefront/notification/iface"
)

// CheckoutService creates hosted checkout sessions for order intents.
type CheckoutService struct {
	loggerProvider logger.Provider
	stripeClient   *Client
	store          artifactsIface.BlobStore
}

func NewCheckoutService(loggerProvider logger.Provider, stripeClient *Client, store artifactsIface.BlobStore) *CheckoutService {
	return &CheckoutService{
		loggerProvider: loggerProvider,
		stripeClient:   stripeClient,
		store:          store,
	}
}

// WebhookService processes signed checkout webhook deliveries and runs
// order reconciliation.
type WebhookService struct {
	loggerProvider logger.Provider
	stripeClient   *Client
	store          artifactsIface.BlobStore
	notifier       notificationIface.Dispatcher
	httpClient     *resty.Client
}

func NewWebhookService(loggerProvider logger.Provider, stripeClient *Client, store artifactsIface.BlobStore, notifier notificationIface.Dispatcher) *WebhookService {
	return &WebhookService{
		loggerProvider: loggerProvider,
		stripeClient:   stripeClient,
		store:          store,
		notifier:       notifier,
		httpClient:     resty.New().SetTimeout(30 * time.Second),
	}
}
