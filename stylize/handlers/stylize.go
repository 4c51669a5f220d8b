package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nittanycraft/storefront/framework/web"
	"github.com/nittanycraft/storefront/logger"
	"github.com/nittanycraft/storefront/stylize/iface"
	"github.com/nittanycraft/storefront/stylize/service"
)

type Stylize struct {
	loggerProvider logger.Provider
	stylizer       iface.Stylizer
}

func NewStylize(loggerProvider logger.Provider, stylizer iface.Stylizer) *Stylize {
	return &Stylize{
		loggerProvider: loggerProvider,
		stylizer:       stylizer,
	}
}

// StylizeHandler renders an uploaded photo into its engraving preview
// and streams the result back.
func (h *Stylize) StylizeHandler(ctx *gin.Context) error {
	l := h.loggerProvider(ctx)

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return web.NewRequestError(errors.New("missing image file"), http.StatusBadRequest)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return web.NewRequestError(errors.New("file must be an image"), http.StatusBadRequest)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	result, resultType, err := h.stylizer.Stylize(ctx, data, mimeType)
	if err != nil {
		l.Errorf("stylizing image failed: %s", err)

		if errors.Is(err, service.ErrNotConfigured) {
			return web.NewRequestError(err, http.StatusInternalServerError)
		}

		return web.NewRequestError(err, http.StatusBadGateway)
	}

	ctx.Data(http.StatusOK, resultType, result)

	return nil
}
