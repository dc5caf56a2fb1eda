package config

import "time"

type Config struct {
	RedisURL    string
	MongoURI    string
	MongoDB     string
	JWTSecret   string
	Environment string
	Port        string
	SessionTTL  time.Duration
}
