package image

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/openkombai/client/internal/browser"
	"codeberg.org/openkombai/client/internal/errors"
	"codeberg.org/openkombai/client/internal/imagesource"
	"github.com/gin-gonic/gin"
)

// multipart framing on top of the image itself
const formOverhead = 1 << 20

// UploadHandler captures an uploaded screenshot as the current selection
func UploadHandler(selector Selector, notifier SelectionNotifier, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+formOverhead)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				errors.ImageTooLarge(c)
				return
			}

			errors.BadRequest(c, "an image file is required", err)
			return
		}

		payload, err := imagesource.FromUpload(fh, maxBytes, imagesource.WithPreviewFunc(browser.PreviewURL))
		switch {
		case err == nil:
		case stderrors.Is(err, imagesource.ErrImageTooLarge):
			errors.ImageTooLarge(c)
			return
		case stderrors.Is(err, imagesource.ErrUnsupportedImage):
			errors.UnsupportedImage(c, err)
			return
		default:
			errors.InternalError(c, "failed to read uploaded image", err)
			return
		}

		selector.Select(payload)
		notifier.ImageSelected(payload)

		c.JSON(http.StatusCreated, ImageResponse{
			ID:       payload.ID,
			Filename: payload.Filename,
			MimeType: payload.MimeType,
			Size:     payload.Size,
			Preview:  payload.Preview,
		})
	}
}

// PreviewHandler serves the bytes of the current selection back to the page
func PreviewHandler(selector Selector) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q PreviewQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			errors.BadRequest(c, "id is required", err)
			return
		}

		// older ids are gone once a new image replaced them
		current := selector.Selection().Current()
		if current == nil || current.ID != q.ID {
			errors.NotFound(c, "image")
			return
		}

		r, err := current.Open()
		if err != nil {
			errors.InternalError(c, "failed to open image", err)
			return
		}
		defer r.Close() //nolint:errcheck

		c.Header("Cache-Control", "private, max-age=3600")
		c.DataFromReader(http.StatusOK, current.Size, current.MimeType, r, nil)
	}
}
