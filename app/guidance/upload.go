// Package guidance contains the résumé and recommendation endpoints
package guidance

import (
	"errors"
	"net/http"

	"pathfinder/guide-api/app/respond"
	"pathfinder/guide-api/internal"
	"pathfinder/guide-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func UploadResume(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	// A request without a file part still reaches the service, which
	// rejects it
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Fail(c, http.StatusRequestEntityTooLarge, "Request body size exceeds limit")
			return
		}

		zap.L().Debug("No multipart file in request", zap.Error(err), zap.String("requestID", requestID))
	}

	upload, err := d.Uploads.Save(c.Request.Context(), middleware.UserID(c), fh)
	if err != nil {
		respond.Error(c, err, "Failed to save upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_id": upload.ID,
		"filename":  upload.Filename,
	})
}
