package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nittanycraft/storefront/mailer"
)

type Sender struct {
	mock.Mock
}

func (m *Sender) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func NewSender(t interface {
	mock.TestingT
	Cleanup(func())
}) *Sender {
	m := &Sender{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
