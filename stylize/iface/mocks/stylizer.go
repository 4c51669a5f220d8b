package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Stylizer struct {
	mock.Mock
}

func (m *Stylizer) Stylize(ctx context.Context, data []byte, mimeType string) ([]byte, string, error) {
	args := m.Called(ctx, data, mimeType)

	var result []byte
	if args.Get(0) != nil {
		result = args.Get(0).([]byte)
	}

	return result, args.String(1), args.Error(2)
}

func NewStylizer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Stylizer {
	m := &Stylizer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
