package session

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/squidlabs/server/squid/session"
)

// registers all session lifecycle routes
func RegisterRoutes(router *gin.RouterGroup, mgr *session.Manager, cookieOpts session.CookieOptions, mirrors MirrorRemover) {
	sessionGroup := router.Group("/session")
	{
		sessionGroup.POST("", StartHandler(mgr))
		sessionGroup.GET("", GetHandler(mgr))
		sessionGroup.POST("/page", LogPageHandler(mgr))
		sessionGroup.POST("/action", LogActionHandler(mgr))
		sessionGroup.GET("/logs", LogsHandler(mgr))
		sessionGroup.DELETE("", EndHandler(mgr, cookieOpts, mirrors))
	}
}
