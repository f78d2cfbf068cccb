package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"blogcms/internal/media"

	"github.com/gin-gonic/gin"
)

// multipart framing allowance on top of the file limit
const multipartOverhead = 64 << 10

type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (*media.Upload, error)
	MaxBytes() int64
}

type MediaController struct {
	uploader ImageUploader
}

func NewMediaController(uploader ImageUploader) *MediaController {
	return &MediaController{uploader: uploader}
}

// UploadImage godoc
// @Summary Upload a thumbnail image
// @Description Stores a png, jpeg, gif or webp image and returns its public URL
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 201 {object} map[string]interface{} "Image uploaded successfully"
// @Failure 400 {object} map[string]interface{} "Unsupported file"
// @Failure 413 {object} map[string]interface{} "File too large"
// @Failure 502 {object} map[string]interface{} "Storage error"
// @Router /admin/uploads [post]
func (mc *MediaController) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, mc.uploader.MaxBytes()+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"status":  "error",
				"message": "File too large",
				"error":   media.ErrTooLarge.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Validation failed",
			"error":   "A file is required",
			"fields":  map[string]string{"file": "This field is required"},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid upload",
			"error":   "Could not read the uploaded file",
		})
		return
	}
	defer file.Close()

	upload, err := mc.uploader.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrStorage):
			c.Error(err)
			c.JSON(http.StatusBadGateway, gin.H{
				"status":  "error",
				"message": "Storage error",
				"error":   "The image could not be stored, try again later",
			})
		case errors.Is(err, media.ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"status":  "error",
				"message": "File too large",
				"error":   err.Error(),
			})
		case errors.Is(err, media.ErrUnsupportedMedia), errors.Is(err, media.ErrEmptyFile):
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Validation failed",
				"error":   err.Error(),
				"fields":  map[string]string{"file": err.Error()},
			})
		default:
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to upload image",
				"error":   "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Image uploaded successfully",
		"data":    upload,
	})
}
