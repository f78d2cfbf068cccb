package controllers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogcms/internal/controllers"
	"blogcms/internal/media"
	"blogcms/internal/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupMediaRouter() (*gin.Engine, *mocks.MockUploader) {
	uploader := new(mocks.MockUploader)
	uploader.On("MaxBytes").Return(int64(1 << 20))
	controller := controllers.NewMediaController(uploader)

	router := setupTestRouter()
	router.POST("/api/admin/uploads", controller.UploadImage)
	return router, uploader
}

func multipartRequest(t *testing.T, field, filename string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	tests := []struct {
		name           string
		field          string
		uploadErr      error
		expectedStatus int
	}{
		{name: "stored", field: "file", expectedStatus: http.StatusCreated},
		{name: "missing file", field: "", expectedStatus: http.StatusBadRequest},
		{name: "wrong form field", field: "image", expectedStatus: http.StatusBadRequest},
		{name: "not an image", field: "file", uploadErr: fmt.Errorf("%w: text/plain", media.ErrUnsupportedMedia), expectedStatus: http.StatusBadRequest},
		{name: "empty file", field: "file", uploadErr: media.ErrEmptyFile, expectedStatus: http.StatusBadRequest},
		{name: "over the limit", field: "file", uploadErr: media.ErrTooLarge, expectedStatus: http.StatusRequestEntityTooLarge},
		{name: "bucket unavailable", field: "file", uploadErr: fmt.Errorf("%w: timeout", media.ErrStorage), expectedStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, uploader := setupMediaRouter()
			if tt.field == "file" {
				if tt.uploadErr != nil {
					uploader.On("Upload", mock.Anything, "cat.png", mock.Anything, mock.Anything).Return(nil, tt.uploadErr)
				} else {
					uploader.On("Upload", mock.Anything, "cat.png", mock.Anything, mock.Anything).Return(&media.Upload{
						Key:         "1700000000-ab12cd34.png",
						URL:         "/uploads/1700000000-ab12cd34.png",
						ContentType: "image/png",
						Size:        4,
					}, nil)
				}
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest(t, tt.field, "cat.png", []byte("\x89PNG")))
			assert.Equal(t, tt.expectedStatus, w.Code)

			response := decode(t, w)
			if tt.expectedStatus == http.StatusCreated {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "/uploads/1700000000-ab12cd34.png", data["url"])
			}
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Contains(t, response["fields"], "file")
			}
			if tt.expectedStatus == http.StatusBadGateway {
				assert.NotContains(t, w.Body.String(), "timeout")
			}
		})
	}
}

func TestUploadImageRejectsOversizedBody(t *testing.T) {
	uploader := new(mocks.MockUploader)
	uploader.On("MaxBytes").Return(int64(16))
	controller := controllers.NewMediaController(uploader)
	router := setupTestRouter()
	router.POST("/api/admin/uploads", controller.UploadImage)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "file", "big.png", bytes.Repeat([]byte{0}, 128<<10)))

	assert.NotEqual(t, http.StatusCreated, w.Code)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
