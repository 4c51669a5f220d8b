package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nittanycraft/storefront/checkout/domain"
)

type WebhookService struct {
	mock.Mock
}

func (m *WebhookService) HandleEvent(ctx context.Context, body []byte, signature string) (*domain.WebhookSummary, error) {
	args := m.Called(ctx, body, signature)

	var summary *domain.WebhookSummary
	if args.Get(0) != nil {
		summary = args.Get(0).(*domain.WebhookSummary)
	}

	return summary, args.Error(1)
}

func NewWebhookService(t interface {
	mock.TestingT
	Cleanup(func())
}) *WebhookService {
	m := &WebhookService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
