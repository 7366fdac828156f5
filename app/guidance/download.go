package guidance

import (
	"mime"
	"net/http"
	"strconv"

	"pathfinder/guide-api/app/respond"
	"pathfinder/guide-api/internal"

	"github.com/gin-gonic/gin"
)

// DownloadUpload streams the stored bytes as an attachment named after
// the original file.
func DownloadUpload(c *gin.Context, d *internal.Deps) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respond.Fail(c, http.StatusNotFound, "upload not found")
		return
	}

	upload, r, err := d.Uploads.Open(c.Request.Context(), uint(id))
	if err != nil {
		respond.Error(c, err, "Failed to open upload")
		return
	}
	defer r.Close()

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, upload.Size, contentType, r, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": upload.Filename}),
	})
}
