package guidance

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pathfinder/guide-api/app/respond"
	"pathfinder/guide-api/internal"
	"pathfinder/guide-api/internal/service"
	"pathfinder/guide-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type recommendBody struct {
	Profile json.RawMessage `json:"profile"`
	Goals   json.RawMessage `json:"goals"`
}

func Recommend(c *gin.Context, d *internal.Deps) {
	var data recommendBody
	if err := c.ShouldBindJSON(&data); err != nil && !errors.Is(err, io.EOF) {
		respond.Fail(c, http.StatusBadRequest, "Malformed or invalid JSON request body")
		return
	}

	session, result, err := d.Guidance.Recommend(c.Request.Context(), middleware.UserID(c), data.Profile, service.GoalsText(data.Goals))
	if err != nil {
		respond.Error(c, err, "Failed to create guidance session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"result":     result,
	})
}

