package domain

import notification "github.com/nittanycraft/storefront/notification/domain"

// WebhookImages reports which artifacts could be recovered for a
// completed order.
type WebhookImages struct {
	OriginalURL  string `json:"originalUrl,omitempty"`
	ProcessedURL string `json:"processedUrl,omitempty"`
	Repaired     bool   `json:"repaired,omitempty"`
}

// WebhookSummary is the acknowledgment body returned to Stripe. Received
// is true whenever the event was accepted, even if downstream steps
// degraded.
type WebhookSummary struct {
	Received  bool                 `json:"received"`
	Success   bool                 `json:"success,omitempty"`
	OrderID   string               `json:"orderId,omitempty"`
	OrderType OrderType            `json:"orderType,omitempty"`
	Images    *WebhookImages       `json:"images,omitempty"`
	Email     *notification.Result `json:"email,omitempty"`
}
