package iface

import (
	"context"

	checkout "github.com/nittanycraft/storefront/checkout/domain"
	"github.com/nittanycraft/storefront/notification/domain"
)

//go:generate mockery --name Dispatcher --output ./mocks

// Dispatcher fans an order notification out to the operations inbox and
// the customer.
type Dispatcher interface {
	Send(ctx context.Context, order *checkout.ReconciledOrder) domain.Result
}
