// Package user contains the account endpoints
package user

import (
	"errors"
	"io"
	"net/http"

	"pathfinder/guide-api/app/respond"
	"pathfinder/guide-api/internal"
	"pathfinder/guide-api/internal/model"
	"pathfinder/guide-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if !bindOptional(c, &data) {
		return
	}

	user, token, err := d.Auth.Register(c.Request.Context(), data.Name, data.Email, data.Password)
	if err != nil {
		respond.Error(c, err, "Failed to register user")
		return
	}

	zap.L().Debug("Registered user", zap.Uint("userID", user.ID), zap.String("requestID", requestID))
	writeSession(c, d, user, token)
}

// bindOptional decodes a JSON body. A missing body decodes to the zero
// value so the service reports which fields are missing.
func bindOptional(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		respond.Fail(c, http.StatusBadRequest, "Malformed or invalid JSON request body")
		return false
	}

	return true
}

func writeSession(c *gin.Context, d *internal.Deps, user *model.User, token string) {
	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
	middleware.SetAuthCookie(c, token, int(d.Tokens.TTL().Seconds()), secure)

	c.JSON(http.StatusOK, gin.H{
		"user":  user.Public(),
		"token": token,
	})
}
