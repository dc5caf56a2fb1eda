package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"codeberg.org/squidlabs/server/internal/config"
	"codeberg.org/squidlabs/server/internal/logger"
	"codeberg.org/squidlabs/server/internal/notify"
	"codeberg.org/squidlabs/server/squid/session"
	"codeberg.org/squidlabs/server/squid/users"
)

// how long startup pings and index creation may take
const startupTimeout = 5 * time.Second

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	redisClient := redis.NewClient(redisOpts)

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		redisClient.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := mongoClient.Ping(ctx, nil); err != nil {
		redisClient.Close()                          //nolint:errcheck,gosec // best-effort cleanup on init failure
		mongoClient.Disconnect(context.Background()) //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := mongoClient.Database(cfg.MongoDB)

	userRepo := users.NewRepository(db)
	mirrorRepo := users.NewMirrorRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure user indexes: %w", err)
	}

	if err := mirrorRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure mirror indexes: %w", err)
	}

	sessionStore := session.NewRedisStore(redisClient, cfg.SessionTTL)
	publisher := notify.NewPublisher(redisClient)

	sessionMgr := session.NewManager(sessionStore, userRepo, publisher)
	prefsMgr := session.NewPreferencesManager(sessionStore, userRepo)

	subscriber := notify.NewSubscriber(redisClient, mirrorRepo)

	cookieOpts := session.CookieOptions{
		MaxAge:   cfg.SessionTTL,
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
		SameSite: http.SameSiteStrictMode,
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		mongoClient: mongoClient,
		redisClient: redisClient,
		config:      cfg,
		userRepo:    userRepo,
		mirrorRepo:  mirrorRepo,
		sessionMgr:  sessionMgr,
		prefsMgr:    prefsMgr,
		subscriber:  subscriber,
		cookieOpts:  cookieOpts,
		router:      router,
	}

	RegisterRoutes(router, server)

	logger.Info("server initialized",
		"environment", cfg.Environment,
		"session_ttl", cfg.SessionTTL.String(),
	)

	return server, nil
}

// Close releases the server's external connections
func (s *Server) Close() {
	s.redisClient.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := s.mongoClient.Disconnect(ctx); err != nil {
		logger.ErrorErr(err, "failed to disconnect mongo")
	}
}
