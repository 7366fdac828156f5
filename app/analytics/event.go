// Package analytics contains the event logging endpoint
package analytics

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pathfinder/guide-api/app/respond"
	"pathfinder/guide-api/internal"
	"pathfinder/guide-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type eventBody struct {
	Name     string          `json:"name"`
	Metadata json.RawMessage `json:"metadata"`
}

func RecordEvent(c *gin.Context, d *internal.Deps) {
	var data eventBody
	if err := c.ShouldBindJSON(&data); err != nil && !errors.Is(err, io.EOF) {
		respond.Fail(c, http.StatusBadRequest, "Malformed or invalid JSON request body")
		return
	}

	ev, err := d.Guidance.RecordEvent(c.Request.Context(), middleware.UserID(c), data.Name, data.Metadata)
	if err != nil {
		respond.Error(c, err, "Failed to record event")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"event_id": ev.ID,
	})
}
