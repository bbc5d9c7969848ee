package api

import "github.com/gin-gonic/gin"

// SetupRouter wires the auth endpoints onto a Gin engine.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/reset-password", h.ResetPassword)
		}
	}

	return r
}
