package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v74"
)

type CheckoutSessions struct {
	mock.Mock
}

func (m *CheckoutSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	args := m.Called(params)

	var session *stripe.CheckoutSession
	if args.Get(0) != nil {
		session = args.Get(0).(*stripe.CheckoutSession)
	}

	return session, args.Error(1)
}

func (m *CheckoutSessions) Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	args := m.Called(id, params)

	var session *stripe.CheckoutSession
	if args.Get(0) != nil {
		session = args.Get(0).(*stripe.CheckoutSession)
	}

	return session, args.Error(1)
}

func NewCheckoutSessions(t interface {
	mock.TestingT
	Cleanup(func())
}) *CheckoutSessions {
	m := &CheckoutSessions{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
