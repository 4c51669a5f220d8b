package iface

import (
	"context"

	"github.com/nittanycraft/storefront/mailer"
)

//go:generate mockery --name Sender --output ./mocks

// Sender delivers a single outgoing message.
type Sender interface {
	Configured() bool
	Send(ctx context.Context, msg *mailer.Message) error
}
