package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"golang.org/x/sync/errgroup"

	artifacts "github.com/nittanycraft/storefront/artifacts/service"
	"github.com/nittanycraft/storefront/checkout/domain"
)

// CreateOrderSession turns an order intent into a hosted checkout session.
// Inline image payloads are moved to blob storage first so the session
// metadata stays within the per-value size limit.
func (s *CheckoutService) CreateOrderSession(ctx context.Context, intent *domain.OrderIntent, origin string) (*domain.CheckoutRedirect, error) {
	l := s.loggerProvider(ctx)

	sessions, err := s.stripeClient.Sessions()
	if err != nil {
		return nil, err
	}

	price, amount, err := resolvePrice(intent)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		domain.MetadataKeyOrderType: string(intent.OrderType),
		domain.MetadataKeyPrice:     strconv.FormatFloat(price, 'f', 2, 64),
		domain.MetadataKeyTestMode:  strconv.FormatBool(intent.TestMode),
	}

	if intent.OrderType == domain.OrderTypeCustomEngraving {
		originalURL, processedURL, err := s.stageArtifacts(ctx, intent)
		if err != nil {
			return nil, err
		}

		metadata[domain.MetadataKeyOriginalURL] = originalURL
		metadata[domain.MetadataKeyProcessedURL] = processedURL
		metadata[domain.MetadataKeyOriginalMimeType] = intent.Original.MimeType
		metadata[domain.MetadataKeyProcessedMimeType] = intent.Processed.MimeType
	}

	if err := validateMetadata(metadata); err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(productTitle(intent.OrderType)),
						Description: stripe.String(productDescription(intent.OrderType)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"US"}),
		},
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(0),
						Currency: stripe.String(string(stripe.CurrencyUSD)),
					},
					DisplayName: stripe.String("Free shipping"),
				},
			},
		},
		SuccessURL: stripe.String(origin + "/thank-you?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(origin + "?canceled=true"),
	}

	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	session, err := sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	l.Infof("created checkout session %s for %s order at $%.2f", session.ID, intent.OrderType, price)

	return &domain.CheckoutRedirect{
		Success:   true,
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// PrepareOrderArtifacts stages the order images ahead of checkout so the
// client can retry session creation without resending image payloads.
func (s *CheckoutService) PrepareOrderArtifacts(ctx context.Context, intent *domain.OrderIntent) (*domain.PreparedArtifacts, error) {
	originalURL, processedURL, err := s.stageArtifacts(ctx, intent)
	if err != nil {
		return nil, err
	}

	prepared := &domain.PreparedArtifacts{
		OriginalURL:       originalURL,
		ProcessedURL:      processedURL,
		OriginalMimeType:  intent.Original.MimeType,
		ProcessedMimeType: intent.Processed.MimeType,
	}

	metadata := map[string]string{
		domain.MetadataKeyOriginalURL:  originalURL,
		domain.MetadataKeyProcessedURL: processedURL,
	}

	if err := validateMetadata(metadata); err != nil {
		return nil, err
	}

	return prepared, nil
}

// resolvePrice returns the effective order price in dollars and in minor
// units. An absent price falls back to the product default, a supplied
// negative price is a client error. Test mode overrides whatever price
// the intent carried.
func resolvePrice(intent *domain.OrderIntent) (float64, int64, error) {
	var price float64

	switch intent.OrderType {
	case domain.OrderTypeOldMainClassic:
		price = float64(domain.OldMainClassicAmount) / 100
	default:
		price = intent.Price
		if price < 0 {
			return 0, 0, ErrInvalidPrice
		}

		if price == 0 {
			price = domain.DefaultCustomPrice
		}
	}

	if intent.TestMode {
		price = domain.TestModePrice
	}

	amount := int64(math.Round(price * 100))
	if amount <= 0 {
		return 0, 0, ErrInvalidPrice
	}

	return price, amount, nil
}

// stageArtifacts makes sure both order images are reachable by URL,
// uploading inline payloads to a fresh temp folder.
func (s *CheckoutService) stageArtifacts(ctx context.Context, intent *domain.OrderIntent) (string, string, error) {
	if intent.Original.URL == "" && intent.Original.Base64 == "" {
		return "", "", ErrMissingOriginalImage
	}

	if intent.Processed.URL == "" && intent.Processed.Base64 == "" {
		return "", "", ErrMissingProcessedImage
	}

	originalURL := intent.Original.URL
	processedURL := intent.Processed.URL

	if originalURL != "" && processedURL != "" {
		return originalURL, processedURL, nil
	}

	folder := artifacts.TempFolder()

	g, gctx := errgroup.WithContext(ctx)

	if originalURL == "" {
		g.Go(func() error {
			var err error
			originalURL, err = s.uploadInline(gctx, folder, "original", &intent.Original)

			return err
		})
	}

	if processedURL == "" {
		g.Go(func() error {
			var err error
			processedURL, err = s.uploadInline(gctx, folder, "processed", &intent.Processed)

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return "", "", err
	}

	return originalURL, processedURL, nil
}

func (s *CheckoutService) uploadInline(ctx context.Context, folder, name string, ref *domain.ArtifactRef) (string, error) {
	data, mimeType, err := decodeInlineImage(ref.Base64)
	if err != nil {
		return "", err
	}

	if mimeType == "" {
		mimeType = ref.MimeType
	} else {
		ref.MimeType = mimeType
	}

	objectName := fmt.Sprintf("%s/%s.%s", folder, name, artifacts.ExtFromMime(mimeType))

	return s.store.Upload(ctx, objectName, data, mimeType)
}

// decodeInlineImage accepts either a bare base64 payload or a data URL
// and returns the raw bytes plus the content type when one was embedded.
func decodeInlineImage(payload string) ([]byte, string, error) {
	var mimeType string

	if strings.HasPrefix(payload, "data:") {
		header, rest, found := strings.Cut(payload, ",")
		if !found {
			return nil, "", fmt.Errorf("malformed data url")
		}

		mimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image payload: %w", err)
	}

	return data, mimeType, nil
}

func validateMetadata(metadata map[string]string) error {
	for key, value := range metadata {
		if len(value) > domain.MetadataValueLimit {
			return fmt.Errorf("%w: %s", ErrMetadataValueTooLarge, key)
		}
	}

	return nil
}

func productTitle(orderType domain.OrderType) string {
	if orderType == domain.OrderTypeOldMainClassic {
		return domain.OldMainClassicName
	}

	return domain.CustomEngravingName
}

func productDescription(orderType domain.OrderType) string {
	if orderType == domain.OrderTypeOldMainClassic {
		return domain.OldMainClassicDescription
	}

	return domain.CustomEngravingDescription
}
