package user

import (
	"net/http"

	"pathfinder/guide-api/app/respond"
	"pathfinder/guide-api/internal"
	"pathfinder/guide-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// UserFetch returns the user the request token belongs to. Must run after
// the JWT middleware.
func UserFetch(c *gin.Context, d *internal.Deps) {
	userID := middleware.UserID(c)
	if userID == nil {
		respond.Fail(c, http.StatusUnauthorized, "Missing authorization token")
		return
	}

	user, err := d.Auth.CurrentUser(c.Request.Context(), *userID)
	if err != nil {
		respond.Error(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user.Public(),
	})
}
