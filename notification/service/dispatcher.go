package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	artifacts "github.com/nittanycraft/storefront/artifacts/service"
	checkout "github.com/nittanycraft/storefront/checkout/domain"
	"github.com/nittanycraft/storefront/common"
	"github.com/nittanycraft/storefront/logger"
	"github.com/nittanycraft/storefront/mailer"
	"github.com/nittanycraft/storefront/mailer/iface"
	"github.com/nittanycraft/storefront/notification/domain"
)

// OrderDispatcher sends the operations notice and the customer
// confirmation for a completed order. Deliveries run concurrently and
// settle independently, one failed message never blocks the others.
type OrderDispatcher struct {
	loggerProvider logger.Provider
	sender         iface.Sender
	opsRecipients  []string
}

func NewOrderDispatcher(loggerProvider logger.Provider, sender iface.Sender) *OrderDispatcher {
	return &OrderDispatcher{
		loggerProvider: loggerProvider,
		sender:         sender,
		opsRecipients:  parseRecipients(common.GetEnv("ORDER_NOTIFY_EMAILS", "")),
	}
}

func parseRecipients(raw string) []string {
	var recipients []string

	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			recipients = append(recipients, addr)
		}
	}

	return recipients
}

func (d *OrderDispatcher) Send(ctx context.Context, order *checkout.ReconciledOrder) domain.Result {
	l := d.loggerProvider(ctx)

	messages, err := d.buildMessages(order)
	if err != nil {
		return domain.Result{Success: false, Error: err.Error()}
	}

	if len(messages) == 0 {
		l.Warningf("order %s has no notification recipients", order.OrderID)
		return domain.Result{Success: true, Skipped: true}
	}

	if !d.sender.Configured() {
		return domain.Result{Success: false, Error: mailer.ErrNotConfigured.Error()}
	}

	type outcome struct {
		to  string
		err error
	}

	outcomes := make(chan outcome, len(messages))

	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)

		go func(msg *mailer.Message) {
			defer wg.Done()
			outcomes <- outcome{to: msg.To, err: d.sender.Send(ctx, msg)}
		}(msg)
	}

	wg.Wait()
	close(outcomes)

	var (
		result  domain.Result
		sendErr error
	)

	for o := range outcomes {
		if o.err != nil {
			l.Errorf("order %s notification to %s failed: %s", order.OrderID, o.to, o.err)

			result.Failed++
			sendErr = multierror.Append(sendErr, fmt.Errorf("to %s: %w", o.to, o.err))

			continue
		}

		result.Sent++
	}

	result.Success = result.Sent > 0

	if sendErr != nil {
		result.Error = sendErr.Error()
	}

	return result
}

func (d *OrderDispatcher) buildMessages(order *checkout.ReconciledOrder) ([]*mailer.Message, error) {
	var messages []*mailer.Message

	attachments := orderAttachments(order)

	if len(d.opsRecipients) > 0 {
		html, err := renderOpsNotice(order)
		if err != nil {
			return nil, err
		}

		for _, to := range d.opsRecipients {
			messages = append(messages, &mailer.Message{
				To:          to,
				Subject:     fmt.Sprintf("New order %s", order.OrderID),
				HTML:        html,
				Attachments: attachments,
			})
		}
	}

	if order.CustomerEmail != "" {
		html, err := renderCustomerConfirmation(order)
		if err != nil {
			return nil, err
		}

		messages = append(messages, &mailer.Message{
			To:          order.CustomerEmail,
			ToName:      order.CustomerName,
			Subject:     "Your NITTANY CRAFT order confirmation",
			HTML:        html,
			Attachments: attachments,
		})
	}

	return messages, nil
}

func orderAttachments(order *checkout.ReconciledOrder) []mailer.Attachment {
	var attachments []mailer.Attachment

	if order.Original != nil && len(order.Original.Data) > 0 {
		attachments = append(attachments, newAttachment("original", order.OrderID, order.Original))
	}

	if order.Processed != nil && len(order.Processed.Data) > 0 {
		attachments = append(attachments, newAttachment("laser-engraved", order.OrderID, order.Processed))
	}

	return attachments
}

func newAttachment(prefix, orderID string, image *checkout.OrderImage) mailer.Attachment {
	mimeType := image.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}

	return mailer.Attachment{
		Filename: fmt.Sprintf("%s-%s.%s", prefix, orderID, artifacts.ExtFromMime(mimeType)),
		Content:  image.Data,
		MimeType: mimeType,
	}
}
