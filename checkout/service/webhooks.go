package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qmuntal/stateless"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/nittanycraft/storefront/checkout/domain"
)

const checkoutSessionCompleted = "checkout.session.completed"

// Delivery processing states. Every webhook walks the machine from
// received to one of the terminal states, which keeps the ordering of
// verify, reconcile and notify explicit.
const (
	stateReceived    = "received"
	stateVerified    = "verified"
	stateReconciling = "reconciling"
	stateCompleted   = "completed"
	stateRejected    = "rejected"
	stateFailed      = "failed"
)

const (
	triggerVerify    = "verify"
	triggerReconcile = "reconcile"
	triggerComplete  = "complete"
	triggerReject    = "reject"
	triggerFail      = "fail"
)

func newDeliveryMachine() *stateless.StateMachine {
	machine := stateless.NewStateMachine(stateReceived)

	machine.Configure(stateReceived).
		Permit(triggerVerify, stateVerified).
		Permit(triggerReject, stateRejected)

	machine.Configure(stateVerified).
		Permit(triggerReconcile, stateReconciling).
		Permit(triggerComplete, stateCompleted).
		Permit(triggerReject, stateRejected)

	machine.Configure(stateReconciling).
		Permit(triggerComplete, stateCompleted).
		Permit(triggerReject, stateRejected).
		Permit(triggerFail, stateFailed)

	return machine
}

// HandleEvent verifies a signed webhook delivery and, for completed
// checkout sessions, reconciles the order and fans out notifications.
// Deliveries are processed at least once, a redelivered event runs the
// whole pipeline again.
func (s *WebhookService) HandleEvent(ctx context.Context, body []byte, signature string) (*domain.WebhookSummary, error) {
	l := s.loggerProvider(ctx)

	machine := newDeliveryMachine()

	signKey, err := s.stripeClient.WebhookSignKey()
	if err != nil {
		_ = machine.Fire(triggerReject)
		return nil, err
	}

	if signature == "" {
		_ = machine.Fire(triggerReject)
		return nil, ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(body, signature, signKey, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		_ = machine.Fire(triggerReject)
		return nil, fmt.Errorf("%w: %s", ErrBadSignature, err)
	}

	if err := machine.Fire(triggerVerify); err != nil {
		return nil, err
	}

	l.SetLabels(map[string]string{
		"eventType": event.Type,
		"eventID":   event.ID,
	})

	if event.Type != checkoutSessionCompleted {
		l.Infof("ignoring event type %s", event.Type)

		_ = machine.Fire(triggerComplete)

		return &domain.WebhookSummary{Received: true}, nil
	}

	var payload stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &payload); err != nil {
		_ = machine.Fire(triggerReject)
		return nil, fmt.Errorf("decoding checkout session payload: %w", err)
	}

	if err := machine.Fire(triggerReconcile); err != nil {
		return nil, err
	}

	session := s.refetchSession(ctx, &payload)

	order, images, err := s.reconcileOrder(ctx, session)
	if err != nil {
		_ = machine.Fire(triggerReject)
		return nil, err
	}

	emailResult := s.notifier.Send(ctx, order)

	if !emailResult.Success {
		l.Errorf("order %s notification failed: %s", order.OrderID, emailResult.Error)
		_ = machine.Fire(triggerFail)
	} else {
		_ = machine.Fire(triggerComplete)
	}

	state := machine.MustState()
	l.Infof("webhook delivery for order %s finished in state %s", order.OrderID, state)

	return &domain.WebhookSummary{
		Received:  true,
		Success:   state == stateCompleted,
		OrderID:   order.OrderID,
		OrderType: order.OrderType,
		Images:    images,
		Email:     &emailResult,
	}, nil
}

// refetchSession re-reads the session from the API so reconciliation
// sees current fields instead of the possibly stale event payload.
func (s *WebhookService) refetchSession(ctx context.Context, payload *stripe.CheckoutSession) *stripe.CheckoutSession {
	l := s.loggerProvider(ctx)

	sessions, err := s.stripeClient.Sessions()
	if err != nil {
		l.Warningf("cannot refetch session %s: %s", payload.ID, err)
		return payload
	}

	session, err := sessions.Get(payload.ID, nil)
	if err != nil {
		l.Warningf("refetching session %s failed, using event payload: %s", payload.ID, err)
		return payload
	}

	return session
}
