package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ecotrack/ecotrack/middleware"
	"github.com/ecotrack/ecotrack/models"
)

// getUserID extracts the authenticated user ID placed by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// publicUser is the user shape exposed by the API; no credential material.
type publicUser struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
	AvatarURL string `json:"avatar_url"`
}

func sanitizeUserResponse(u models.User) publicUser {
	return publicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Provider:  u.Provider,
		AvatarURL: u.AvatarURL,
	}
}
