package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nittanycraft/storefront/checkout/domain"
	"github.com/nittanycraft/storefront/checkout/iface"
	"github.com/nittanycraft/storefront/checkout/service"
	"github.com/nittanycraft/storefront/common"
	"github.com/nittanycraft/storefront/framework/web"
	"github.com/nittanycraft/storefront/logger"
)

type Checkout struct {
	loggerProvider logger.Provider
	service        iface.CheckoutService
	webhookService iface.WebhookService
	validate       *validator.Validate
}

func NewCheckout(loggerProvider logger.Provider, svc iface.CheckoutService, webhookService iface.WebhookService) *Checkout {
	return &Checkout{
		loggerProvider: loggerProvider,
		service:        svc,
		webhookService: webhookService,
		validate:       validator.New(),
	}
}

// createCheckoutRequest accepts both JSON and form encodings. The image
// URL fields have a long and a short spelling because clients sent both
// historically.
type createCheckoutRequest struct {
	Price             string `json:"price" form:"price"`
	TestMode          string `json:"testMode" form:"testMode"`
	OriginalURL       string `json:"originalUrl" form:"originalUrl" validate:"omitempty,url"`
	ProcessedURL      string `json:"processedUrl" form:"processedUrl" validate:"omitempty,url"`
	OriginalImageURL  string `json:"originalImageUrl" form:"originalImageUrl" validate:"omitempty,url"`
	ProcessedImageURL string `json:"processedImageUrl" form:"processedImageUrl" validate:"omitempty,url"`
	OriginalImage     string `json:"originalImage" form:"originalImage"`
	ProcessedImage    string `json:"processedImage" form:"processedImage"`
	OriginalMimeType  string `json:"originalMimeType" form:"originalMimeType"`
	ProcessedMimeType string `json:"processedMimeType" form:"processedMimeType"`
}

func (r *createCheckoutRequest) toIntent(orderType domain.OrderType) (*domain.OrderIntent, error) {
	originalURL := r.OriginalURL
	if originalURL == "" {
		originalURL = r.OriginalImageURL
	}

	processedURL := r.ProcessedURL
	if processedURL == "" {
		processedURL = r.ProcessedImageURL
	}

	testMode, _ := strconv.ParseBool(r.TestMode)

	price, err := parsePrice(r.Price)
	if err != nil {
		return nil, err
	}

	return &domain.OrderIntent{
		OrderType: orderType,
		Price:     price,
		TestMode:  testMode,
		Original: domain.ArtifactRef{
			URL:      originalURL,
			Base64:   r.OriginalImage,
			MimeType: r.OriginalMimeType,
		},
		Processed: domain.ArtifactRef{
			URL:      processedURL,
			Base64:   r.ProcessedImage,
			MimeType: r.ProcessedMimeType,
		},
	}, nil
}

// parsePrice treats an absent price as zero so the product default can
// apply downstream. A price the client did supply must be a positive
// number.
func parsePrice(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price <= 0 {
		return 0, service.ErrInvalidPrice
	}

	return price, nil
}

// CreateCheckoutHandler starts a checkout session for a custom engraving
// order.
func (h *Checkout) CreateCheckoutHandler(ctx *gin.Context) error {
	return h.createSession(ctx, domain.OrderTypeCustomEngraving)
}

// CreateOldMainCheckoutHandler starts a checkout session for the fixed
// price Old Main product.
func (h *Checkout) CreateOldMainCheckoutHandler(ctx *gin.Context) error {
	return h.createSession(ctx, domain.OrderTypeOldMainClassic)
}

func (h *Checkout) createSession(ctx *gin.Context, orderType domain.OrderType) error {
	l := h.loggerProvider(ctx)

	var req createCheckoutRequest

	if err := ctx.ShouldBind(&req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	if err := h.validate.Struct(&req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	intent, err := req.toIntent(orderType)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	redirect, err := h.service.CreateOrderSession(ctx, intent, requestOrigin(ctx))
	if err != nil {
		l.Errorf("creating %s checkout session failed: %s", orderType, err)
		return web.NewRequestError(err, checkoutErrorStatus(err))
	}

	return web.Respond(ctx, redirect, http.StatusOK)
}

// PreparePurchaseHandler stages order images ahead of checkout and
// returns their storage URLs.
func (h *Checkout) PreparePurchaseHandler(ctx *gin.Context) error {
	var req createCheckoutRequest

	if err := ctx.ShouldBind(&req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	intent, err := req.toIntent(domain.OrderTypeCustomEngraving)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	prepared, err := h.service.PrepareOrderArtifacts(ctx, intent)
	if err != nil {
		return web.NewRequestError(err, checkoutErrorStatus(err))
	}

	return web.Respond(ctx, prepared, http.StatusOK)
}

func requestOrigin(ctx *gin.Context) string {
	if origin := ctx.Request.Header.Get("Origin"); origin != "" {
		return origin
	}

	return common.GetEnv("SITE_ORIGIN", "https://nittanycraft.com")
}

// checkoutErrorStatus maps service errors to response codes. Client
// mistakes come back as 400, everything else is a server problem.
func checkoutErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrPriceNotFound),
		errors.Is(err, service.ErrMissingOriginalImage),
		errors.Is(err, service.ErrMissingProcessedImage),
		errors.Is(err, service.ErrMetadataValueTooLarge),
		errors.Is(err, service.ErrMissingImageData),
		errors.Is(err, service.ErrMissingSignature),
		errors.Is(err, service.ErrBadSignature):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
