package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"codeberg.org/squidlabs/server/internal/config"
	"codeberg.org/squidlabs/server/internal/notify"
	"codeberg.org/squidlabs/server/squid/session"
	"codeberg.org/squidlabs/server/squid/users"
)

// holds all dependencies and state for the API server
type Server struct {
	mongoClient *mongo.Client
	redisClient *redis.Client
	config      *config.Config
	userRepo    *users.Repository
	mirrorRepo  *users.MirrorRepository
	sessionMgr  *session.Manager
	prefsMgr    *session.PreferencesManager
	subscriber  *notify.Subscriber
	cookieOpts  session.CookieOptions
	router      *gin.Engine
}
