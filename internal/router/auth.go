package router

import (
	"github.com/gin-gonic/gin"
)

func (r *Router) authRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/verify-2fa", r.authHandler.VerifyTwoFactor)
		auth.POST("/verify-email", r.authHandler.VerifyEmail)

		protected := auth.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.GET("/me", r.authHandler.Me)
			protected.POST("/logout", r.authHandler.Logout)
		}
	}
}
