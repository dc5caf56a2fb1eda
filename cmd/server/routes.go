package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authapi "codeberg.org/squidlabs/server/api/rest/auth"
	"codeberg.org/squidlabs/server/api/rest/health"
	prefsapi "codeberg.org/squidlabs/server/api/rest/preferences"
	sessionapi "codeberg.org/squidlabs/server/api/rest/session"
	"codeberg.org/squidlabs/server/squid/session"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware())
	router.Use(session.Middleware(server.cookieOpts))

	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		authapi.RegisterRoutes(v1, server.userRepo, server.sessionMgr, server.cookieOpts)
		sessionapi.RegisterRoutes(v1, server.sessionMgr, server.cookieOpts, server.mirrorRepo)
		prefsapi.RegisterRoutes(v1, server.prefsMgr)
	}
}

// allows browser clients to send the session cookie cross-origin
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://squid.dev"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
