package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nittanycraft/storefront/checkout/service"
	"github.com/nittanycraft/storefront/framework/web"
)

// WebhookHandler handles checkout events from stripe.
func (h *Checkout) WebhookHandler(ctx *gin.Context) error {
	l := h.loggerProvider(ctx)

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return web.NewRequestError(web.ErrBadRequest, http.StatusBadRequest)
	}

	signature := ctx.Request.Header.Get("Stripe-Signature")
	if signature == "" {
		return web.NewRequestError(service.ErrMissingSignature, http.StatusBadRequest)
	}

	summary, err := h.webhookService.HandleEvent(ctx, body, signature)
	if err != nil {
		l.Errorf("webhook delivery failed: %s", err)
		return web.NewRequestError(err, checkoutErrorStatus(err))
	}

	return web.Respond(ctx, summary, http.StatusOK)
}
