package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nittanycraft/storefront/checkout/domain"
)

type CheckoutService struct {
	mock.Mock
}

func (m *CheckoutService) CreateOrderSession(ctx context.Context, intent *domain.OrderIntent, origin string) (*domain.CheckoutRedirect, error) {
	args := m.Called(ctx, intent, origin)

	var redirect *domain.CheckoutRedirect
	if args.Get(0) != nil {
		redirect = args.Get(0).(*domain.CheckoutRedirect)
	}

	return redirect, args.Error(1)
}

func (m *CheckoutService) PrepareOrderArtifacts(ctx context.Context, intent *domain.OrderIntent) (*domain.PreparedArtifacts, error) {
	args := m.Called(ctx, intent)

	var prepared *domain.PreparedArtifacts
	if args.Get(0) != nil {
		prepared = args.Get(0).(*domain.PreparedArtifacts)
	}

	return prepared, args.Error(1)
}

func NewCheckoutService(t interface {
	mock.TestingT
	Cleanup(func())
}) *CheckoutService {
	m := &CheckoutService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
