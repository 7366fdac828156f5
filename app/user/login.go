package user

import (
	"pathfinder/guide-api/app/respond"
	"pathfinder/guide-api/internal"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if !bindOptional(c, &data) {
		return
	}

	user, token, err := d.Auth.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		respond.Error(c, err, "Failed to log in user")
		return
	}

	writeSession(c, d, user, token)
}
