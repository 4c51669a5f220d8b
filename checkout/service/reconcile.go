package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v74"

	artifacts "github.com/nittanycraft/storefront/artifacts/service"
	"github.com/nittanycraft/storefront/checkout/domain"
)

// sessionExtras carries checkout session fields newer than the pinned
// API version models, decoded from the raw response body.
type sessionExtras struct {
	CollectedInformation *struct {
		ShippingAddress *struct {
			Name    string          `json:"name"`
			Address *stripe.Address `json:"address"`
		} `json:"shipping_details"`
	} `json:"collected_information"`
}

func decodeSessionExtras(session *stripe.CheckoutSession) *sessionExtras {
	extras := &sessionExtras{}

	if session.LastResponse == nil || len(session.LastResponse.RawJSON) == 0 {
		return extras
	}

	// Best effort, a decode failure just means no extra fields.
	_ = json.Unmarshal(session.LastResponse.RawJSON, extras)

	return extras
}

// reconcileOrder normalizes a completed checkout session into the order
// view the notification and fulfillment steps consume.
func (s *WebhookService) reconcileOrder(ctx context.Context, session *stripe.CheckoutSession) (*domain.ReconciledOrder, *domain.WebhookImages, error) {
	extras := decodeSessionExtras(session)

	price, err := reconcilePrice(session)
	if err != nil {
		return nil, nil, err
	}

	order := &domain.ReconciledOrder{
		OrderID:       session.ID,
		OrderType:     reconcileOrderType(session),
		Price:         price,
		Created:       reconcileCreated(session),
		CustomerEmail: reconcileEmail(session),
		Shipping:      reconcileShipping(session, extras),
	}

	if order.Shipping != nil {
		order.CustomerName = order.Shipping.Name
	}

	if order.CustomerName == "" && session.CustomerDetails != nil {
		order.CustomerName = session.CustomerDetails.Name
	}

	images, err := s.reconcileImages(ctx, session, order)
	if err != nil {
		return nil, nil, err
	}

	return order, images, nil
}

func reconcileCreated(session *stripe.CheckoutSession) time.Time {
	if session.Created > 0 {
		return time.Unix(session.Created, 0).UTC()
	}

	return time.Now().UTC()
}

func reconcileOrderType(session *stripe.CheckoutSession) domain.OrderType {
	if orderType, ok := session.Metadata[domain.MetadataKeyOrderType]; ok && orderType != "" {
		return domain.OrderType(orderType)
	}

	return domain.OrderTypeCustomEngraving
}

// reconcilePrice prefers the amount the buyer actually paid. A zero
// total falls through to the price recorded on the session metadata.
func reconcilePrice(session *stripe.CheckoutSession) (float64, error) {
	if session.AmountTotal > 0 {
		return float64(session.AmountTotal) / 100, nil
	}

	if raw, ok := session.Metadata[domain.MetadataKeyPrice]; ok && raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err == nil && price > 0 {
			return price, nil
		}
	}

	return 0, ErrPriceNotFound
}

func reconcileEmail(session *stripe.CheckoutSession) string {
	if email := strings.TrimSpace(session.CustomerEmail); email != "" {
		return email
	}

	if session.CustomerDetails != nil {
		return strings.TrimSpace(session.CustomerDetails.Email)
	}

	return ""
}

// reconcileShipping probes the locations shipping has lived at across
// checkout API versions, newest first.
func reconcileShipping(session *stripe.CheckoutSession, extras *sessionExtras) *domain.ShippingAddress {
	if session.ShippingDetails != nil && session.ShippingDetails.Address != nil {
		return newShippingAddress(session.ShippingDetails.Name, session.ShippingDetails.Address)
	}

	if extras.CollectedInformation != nil && extras.CollectedInformation.ShippingAddress != nil {
		collected := extras.CollectedInformation.ShippingAddress
		if collected.Address != nil {
			return newShippingAddress(collected.Name, collected.Address)
		}
	}

	if session.CustomerDetails != nil && session.CustomerDetails.Address != nil && session.CustomerDetails.Address.Line1 != "" {
		return newShippingAddress(session.CustomerDetails.Name, session.CustomerDetails.Address)
	}

	return nil
}

func newShippingAddress(name string, address *stripe.Address) *domain.ShippingAddress {
	return &domain.ShippingAddress{
		Name:       name,
		Line1:      address.Line1,
		Line2:      address.Line2,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
	}
}

// reconcileImages recovers the order artifacts from metadata. URL
// references are fetched for mail attachment, legacy inline payloads are
// repaired into durable storage under the order folder. A fetch failure
// degrades the notification, but a custom order with no recoverable
// artifacts at all fails the delivery so Stripe redelivers it.
func (s *WebhookService) reconcileImages(ctx context.Context, session *stripe.CheckoutSession, order *domain.ReconciledOrder) (*domain.WebhookImages, error) {
	images := &domain.WebhookImages{}

	order.Original = s.recoverImage(ctx, session, order.OrderID, "original", images,
		session.Metadata[domain.MetadataKeyOriginalURL],
		session.Metadata[domain.MetadataKeyOriginalMimeType],
		session.Metadata[domain.MetadataKeyLegacyOriginalImage])

	order.Processed = s.recoverImage(ctx, session, order.OrderID, "processed", images,
		session.Metadata[domain.MetadataKeyProcessedURL],
		session.Metadata[domain.MetadataKeyProcessedMimeType],
		session.Metadata[domain.MetadataKeyLegacyProcessedImage])

	if order.Original != nil {
		images.OriginalURL = order.Original.URL
	}

	if order.Processed != nil {
		images.ProcessedURL = order.Processed.URL
	}

	if images.OriginalURL == "" && images.ProcessedURL == "" {
		if order.OrderType == domain.OrderTypeCustomEngraving {
			return nil, fmt.Errorf("%w: order %s", ErrMissingImageData, order.OrderID)
		}

		return nil, nil
	}

	return images, nil
}

func (s *WebhookService) recoverImage(ctx context.Context, session *stripe.CheckoutSession, orderID, name string, images *domain.WebhookImages, url, mimeType, legacyPayload string) *domain.OrderImage {
	l := s.loggerProvider(ctx)

	if url != "" {
		image := &domain.OrderImage{URL: url, MimeType: mimeType}

		data, err := s.fetchImage(ctx, url)
		if err != nil {
			l.Warningf("fetching %s image for order %s failed: %s", name, orderID, err)
			return image
		}

		image.Data = data

		return image
	}

	if legacyPayload == "" {
		return nil
	}

	data, payloadMime, err := decodeInlineImage(legacyPayload)
	if err != nil {
		l.Warningf("decoding legacy %s image for order %s failed: %s", name, orderID, err)
		return nil
	}

	if payloadMime != "" {
		mimeType = payloadMime
	}

	image := &domain.OrderImage{Data: data, MimeType: mimeType}

	objectName := fmt.Sprintf("%s/%s.%s", artifacts.OrderFolder(orderID), name, artifacts.ExtFromMime(mimeType))

	storedURL, err := s.store.Upload(ctx, objectName, data, mimeType)
	if err != nil {
		l.Warningf("repairing %s image for order %s failed: %s", name, orderID, err)
		return image
	}

	image.URL = storedURL
	images.Repaired = true

	return image
}

func (s *WebhookService) fetchImage(ctx context.Context, url string) ([]byte, error) {
	resp, err := s.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode())
	}

	return resp.Body(), nil
}
