package api

import (
	"net/http"
	"os"

	artifactHandlers "github.com/nittanycraft/storefront/artifacts/handlers"
	artifactService "github.com/nittanycraft/storefront/artifacts/service"
	checkoutHandlers "github.com/nittanycraft/storefront/checkout/handlers"
	checkoutService "github.com/nittanycraft/storefront/checkout/service"
	"github.com/nittanycraft/storefront/cmd/api/handlers"
	"github.com/nittanycraft/storefront/framework/mid"
	"github.com/nittanycraft/storefront/framework/web"
	"github.com/nittanycraft/storefront/logger"
	"github.com/nittanycraft/storefront/mailer"
	notificationService "github.com/nittanycraft/storefront/notification/service"
	stylizeHandlers "github.com/nittanycraft/storefront/stylize/handlers"
	stylizeService "github.com/nittanycraft/storefront/stylize/service"
)

// API constructs an api with the needed functionality.
type API struct {
	shutdown chan os.Signal
	log      *logger.Logging
}

func NewAPI(shutdown chan os.Signal, logging *logger.Logging) *API {
	return &API{
		shutdown,
		logging,
	}
}

// Build builds the api endpoints with the needed middlewares, and returns http.Handler interface.
func (a *API) Build() http.Handler {
	loggerProvider := logger.FromContext

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(a.shutdown, mid.Logger(), mid.Errors(), mid.Panics(), mid.Sentry())

	store := artifactService.NewGCSStore()
	stripeClient := checkoutService.NewClient()
	sender := mailer.NewSendGridSender()
	dispatcher := notificationService.NewOrderDispatcher(loggerProvider, sender)

	checkout := checkoutHandlers.NewCheckout(
		loggerProvider,
		checkoutService.NewCheckoutService(loggerProvider, stripeClient, store),
		checkoutService.NewWebhookService(loggerProvider, stripeClient, store, dispatcher),
	)
	artifacts := artifactHandlers.NewArtifacts(loggerProvider, store)
	stylize := stylizeHandlers.NewStylize(loggerProvider, stylizeService.NewStylizer())

	app.Get("/health", handlers.Health)

	apiGroup := web.NewGroup(app, "/api")
	{
		apiGroup.Post("/checkout", checkout.CreateCheckoutHandler)
		apiGroup.Post("/checkout/old-main", checkout.CreateOldMainCheckoutHandler)
		apiGroup.Post("/webhooks/stripe", checkout.WebhookHandler)
		apiGroup.Post("/purchase/prepare", checkout.PreparePurchaseHandler)

		imagesGroup := apiGroup.NewSubgroup("/images")
		{
			imagesGroup.Post("/upload", artifacts.UploadImagesHandler)
			imagesGroup.Post("/stylize", stylize.StylizeHandler)
		}
	}

	return app
}
