package service

import "errors"

var (
	ErrStripeNotConfigured  = errors.New("stripe is not configured")
	ErrWebhookNotConfigured = errors.New("webhook verification is not configured")

	ErrInvalidPrice          = errors.New("invalid price")
	ErrPriceNotFound         = errors.New("no valid price found for order")
	ErrMissingOriginalImage  = errors.New("missing original image")
	ErrMissingProcessedImage = errors.New("missing processed image")
	ErrMetadataValueTooLarge = errors.New("metadata value exceeds the 500 character limit")
	ErrMissingImageData      = errors.New("missing image data for custom order")

	ErrMissingSignature = errors.New("missing stripe signature header")
	ErrBadSignature     = errors.New("webhook signature verification failed")
)
