package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/nittanycraft/storefront/artifacts/iface"
	"github.com/nittanycraft/storefront/artifacts/service"
	"github.com/nittanycraft/storefront/framework/web"
	"github.com/nittanycraft/storefront/logger"
)

type Artifacts struct {
	loggerProvider logger.Provider
	store          iface.BlobStore
}

func NewArtifacts(loggerProvider logger.Provider, store iface.BlobStore) *Artifacts {
	return &Artifacts{
		loggerProvider: loggerProvider,
		store:          store,
	}
}

type uploadImagesResponse struct {
	Success           bool   `json:"success"`
	OriginalURL       string `json:"originalUrl"`
	ProcessedURL      string `json:"processedUrl"`
	OriginalMimeType  string `json:"originalMimeType"`
	ProcessedMimeType string `json:"processedMimeType"`
	Folder            string `json:"folder"`
}

// UploadImagesHandler stores an original and a processed image pair under a
// fresh temp folder and returns the public URLs the pair is reachable at.
func (h *Artifacts) UploadImagesHandler(ctx *gin.Context) error {
	l := h.loggerProvider(ctx)

	original, err := readImageFile(ctx, "originalImage")
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	processed, err := readImageFile(ctx, "processedImage")
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	folder := service.TempFolder()

	var originalURL, processedURL string

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		originalURL, err = h.store.Upload(gctx, folder+"/original."+service.ExtFromMime(original.mimeType), original.data, original.mimeType)

		return err
	})
	g.Go(func() error {
		var err error
		processedURL, err = h.store.Upload(gctx, folder+"/processed."+service.ExtFromMime(processed.mimeType), processed.data, processed.mimeType)

		return err
	})

	if err := g.Wait(); err != nil {
		l.Errorf("image upload to folder %s failed: %s", folder, err)
		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, uploadImagesResponse{
		Success:           true,
		OriginalURL:       originalURL,
		ProcessedURL:      processedURL,
		OriginalMimeType:  original.mimeType,
		ProcessedMimeType: processed.mimeType,
		Folder:            folder,
	}, http.StatusOK)
}

type imageUpload struct {
	data     []byte
	mimeType string
}

func readImageFile(ctx *gin.Context, field string) (*imageUpload, error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %s file", field)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%s must be an image, got %q", field, mimeType)
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		return nil, err
	}

	return &imageUpload{data: data, mimeType: mimeType}, nil
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}

	defer f.Close()

	return io.ReadAll(f)
}
