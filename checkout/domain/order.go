package domain

import "time"

// OrderType identifies which storefront product a checkout session is for.
type OrderType string

const (
	OrderTypeCustomEngraving OrderType = "custom-engraving"
	OrderTypeOldMainClassic  OrderType = "old-main-classic"
)

const (
	// MetadataValueLimit is the largest value Stripe accepts for a single
	// metadata entry.
	MetadataValueLimit = 500

	// TestModePrice replaces the requested price when a checkout intent
	// asks for test mode.
	TestModePrice = 0.51

	// DefaultCustomPrice applies when a custom engraving intent carries no
	// parseable price.
	DefaultCustomPrice = 55.00

	// OldMainClassicAmount is the fixed product price in minor units.
	OldMainClassicAmount int64 = 3000
)

const (
	CustomEngravingName        = "Custom Laser Engraving"
	CustomEngravingDescription = "Custom photo laser-engraved on wood"

	OldMainClassicName        = "Old Main Classic"
	OldMainClassicDescription = "Signature Penn State landmark laser engraving"
)

// Metadata keys recorded on the checkout session. The legacy image keys
// carried inline base64 before artifacts moved to blob storage and are
// still honored when reading old sessions.
const (
	MetadataKeyOrderType         = "orderType"
	MetadataKeyPrice             = "price"
	MetadataKeyTestMode          = "testMode"
	MetadataKeyOriginalURL       = "originalUrl"
	MetadataKeyProcessedURL      = "processedUrl"
	MetadataKeyOriginalMimeType  = "originalMimeType"
	MetadataKeyProcessedMimeType = "processedMimeType"

	MetadataKeyLegacyOriginalImage  = "originalImage"
	MetadataKeyLegacyProcessedImage = "processedImage"
)

// ArtifactRef points at one image artifact of an order. Either URL or
// Base64 is set, never both.
type ArtifactRef struct {
	URL      string
	Base64   string
	MimeType string
}

// OrderIntent is a validated request to start a checkout session.
type OrderIntent struct {
	OrderType OrderType
	Price     float64
	TestMode  bool
	Original  ArtifactRef
	Processed ArtifactRef
}

// CheckoutRedirect is what the storefront needs to hand the buyer off to
// the hosted payment page.
type CheckoutRedirect struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// PreparedArtifacts reports where staged order images ended up.
type PreparedArtifacts struct {
	OriginalURL       string `json:"originalUrl"`
	ProcessedURL      string `json:"processedUrl"`
	OriginalMimeType  string `json:"originalMimeType"`
	ProcessedMimeType string `json:"processedMimeType"`
}

type ShippingAddress struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// ReconciledOrder is the normalized view of a completed checkout session,
// assembled from the session fields, its metadata and the stored
// artifacts.
type ReconciledOrder struct {
	OrderID       string
	OrderType     OrderType
	Price         float64
	Created       time.Time
	CustomerEmail string
	CustomerName  string
	Shipping      *ShippingAddress
	Original      *OrderImage
	Processed     *OrderImage
}

// OrderImage is a fetched order artifact ready for mail attachment.
type OrderImage struct {
	URL      string
	Data     []byte
	MimeType string
}
