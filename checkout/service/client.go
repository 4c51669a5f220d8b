package service

import (
	"github.com/stripe/stripe-go/v74/client"

	"github.com/nittanycraft/storefront/checkout/iface"
	"github.com/nittanycraft/storefront/common"
)

// Client wraps the Stripe API surface the storefront uses. Credentials
// are resolved from the environment on first use so a missing key shows
// up as an operation error instead of a startup failure.
type Client struct {
	sessions       iface.CheckoutSessions
	webhookSignKey string
}

func NewClient() *Client {
	c := &Client{
		webhookSignKey: common.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	}

	if apiKey := common.GetEnv("STRIPE_SECRET_KEY", ""); apiKey != "" {
		var api client.API

		api.Init(apiKey, nil)

		c.sessions = api.CheckoutSessions
	}

	return c
}

// NewClientWithSessions builds a client around an injected session API,
// used by tests.
func NewClientWithSessions(sessions iface.CheckoutSessions, webhookSignKey string) *Client {
	return &Client{
		sessions:       sessions,
		webhookSignKey: webhookSignKey,
	}
}

func (c *Client) Sessions() (iface.CheckoutSessions, error) {
	if c.sessions == nil {
		return nil, ErrStripeNotConfigured
	}

	return c.sessions, nil
}

func (c *Client) WebhookSignKey() (string, error) {
	if c.webhookSignKey == "" {
		return "", ErrWebhookNotConfigured
	}

	return c.webhookSignKey, nil
}
