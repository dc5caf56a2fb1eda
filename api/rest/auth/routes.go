package auth

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/squidlabs/server/internal/auth"
	"codeberg.org/squidlabs/server/squid/session"
	"codeberg.org/squidlabs/server/squid/users"
)

// registers all auth routes
func RegisterRoutes(router *gin.RouterGroup, userRepo *users.Repository, mgr *session.Manager, cookieOpts session.CookieOptions) {
	authGroup := router.Group("/auth")
	{
		limited := authGroup.Group("")
		limited.Use(RateLimitMiddleware())
		{
			limited.POST("/register", RegisterHandler(userRepo))
			limited.POST("/login", LoginHandler(userRepo, mgr))
		}

		authGroup.POST("/logout", LogoutHandler(mgr, cookieOpts))

		protected := authGroup.Group("")
		protected.Use(auth.AuthMiddleware())
		{
			protected.GET("/me", MeHandler(userRepo))
		}
	}
}
