package handlers

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/nittanycraft/storefront/artifacts/iface/mocks"
	testTools "github.com/nittanycraft/storefront/common/test_tools"
	"github.com/nittanycraft/storefront/logger"
)

func TestArtifacts_UploadImagesHandler(t *testing.T) {
	pngBytes := []byte{0x89, 'P', 'N', 'G'}

	type fields struct {
		store *mocks.BlobStore
	}

	tests := []struct {
		name    string
		ctx     func(t *testing.T) *gin.Context
		wantErr bool
		on      func(f *fields)
	}{
		{
			name: "missing original image",
			ctx: func(t *testing.T) *gin.Context {
				return testTools.GenerateCtxWithMultipart(t, []testTools.MultipartFile{
					{Field: "processedImage", Filename: "processed.png", ContentType: "image/png", Data: pngBytes},
				}, nil)
			},
			wantErr: true,
		},
		{
			name: "non image content type rejected",
			ctx: func(t *testing.T) *gin.Context {
				return testTools.GenerateCtxWithMultipart(t, []testTools.MultipartFile{
					{Field: "originalImage", Filename: "original.pdf", ContentType: "application/pdf", Data: pngBytes},
					{Field: "processedImage", Filename: "processed.png", ContentType: "image/png", Data: pngBytes},
				}, nil)
			},
			wantErr: true,
		},
		{
			name: "upload failure",
			ctx: func(t *testing.T) *gin.Context {
				return testTools.GenerateCtxWithMultipart(t, []testTools.MultipartFile{
					{Field: "originalImage", Filename: "original.png", ContentType: "image/png", Data: pngBytes},
					{Field: "processedImage", Filename: "processed.png", ContentType: "image/png", Data: pngBytes},
				}, nil)
			},
			wantErr: true,
			on: func(f *fields) {
				f.store.On("Upload", mock.Anything, mock.AnythingOfType("string"), pngBytes, "image/png").
					Return("", errors.New("bucket unavailable"))
			},
		},
		{
			name: "success",
			ctx: func(t *testing.T) *gin.Context {
				return testTools.GenerateCtxWithMultipart(t, []testTools.MultipartFile{
					{Field: "originalImage", Filename: "original.png", ContentType: "image/png", Data: pngBytes},
					{Field: "processedImage", Filename: "processed.jpg", ContentType: "image/jpeg", Data: pngBytes},
				}, nil)
			},
			wantErr: false,
			on: func(f *fields) {
				f.store.On("Upload", mock.Anything, mock.AnythingOfType("string"), pngBytes, "image/png").
					Return("https://storage.googleapis.com/bucket/temp/original.png", nil)
				f.store.On("Upload", mock.Anything, mock.AnythingOfType("string"), pngBytes, "image/jpeg").
					Return("https://storage.googleapis.com/bucket/temp/processed.jpg", nil)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				store: &mocks.BlobStore{},
			}

			if tt.on != nil {
				tt.on(&f)
			}

			h := NewArtifacts(logger.FromContext, f.store)

			if err := h.UploadImagesHandler(tt.ctx(t)); (err != nil) != tt.wantErr {
				t.Errorf("Artifacts.UploadImagesHandler() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
