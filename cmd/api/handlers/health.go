package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nittanycraft/storefront/framework/web"
)

func Health(ctx *gin.Context) error {
	return web.Respond(ctx, map[string]string{"status": "ok"}, http.StatusOK)
}
