package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	checkout "github.com/nittanycraft/storefront/checkout/domain"
	"github.com/nittanycraft/storefront/notification/domain"
)

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) Send(ctx context.Context, order *checkout.ReconciledOrder) domain.Result {
	args := m.Called(ctx, order)
	return args.Get(0).(domain.Result)
}

func NewDispatcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *Dispatcher {
	m := &Dispatcher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
