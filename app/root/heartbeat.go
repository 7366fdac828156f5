package root

import (
	"net/http"

	"pathfinder/guide-api/internal"

	"github.com/gin-gonic/gin"
)

// Status reports that the service is up along with its name
func Status(c *gin.Context, d *internal.Deps) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"app":    d.Config.AppName,
	})
}

func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}
