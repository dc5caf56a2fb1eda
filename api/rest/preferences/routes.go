package preferences

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/squidlabs/server/squid/session"
)

// registers all preferences routes
func RegisterRoutes(router *gin.RouterGroup, pm *session.PreferencesManager) {
	prefsGroup := router.Group("/preferences")
	{
		prefsGroup.POST("", SetHandler(pm))
		prefsGroup.GET("", GetHandler(pm))
	}
}
