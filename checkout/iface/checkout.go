package iface

import (
	"context"

	"github.com/stripe/stripe-go/v74"

	"github.com/nittanycraft/storefront/checkout/domain"
)

//go:generate mockery --name CheckoutSessions --output ./mocks
//go:generate mockery --name CheckoutService --output ./mocks
//go:generate mockery --name WebhookService --output ./mocks

// CheckoutSessions is the slice of the Stripe API the checkout flow
// touches.
type CheckoutSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// CheckoutService starts hosted checkout sessions for order intents.
type CheckoutService interface {
	CreateOrderSession(ctx context.Context, intent *domain.OrderIntent, origin string) (*domain.CheckoutRedirect, error)
	PrepareOrderArtifacts(ctx context.Context, intent *domain.OrderIntent) (*domain.PreparedArtifacts, error)
}

// WebhookService verifies and processes signed Stripe webhook deliveries.
type WebhookService interface {
	HandleEvent(ctx context.Context, body []byte, signature string) (*domain.WebhookSummary, error)
}
