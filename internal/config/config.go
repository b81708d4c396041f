// Package config reads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type InvalidationCfg struct {
	Enabled bool
	Topic   string
	Brokers string
	GroupID string
}

type CacheCfg struct {
	Enabled   bool
	RedisAddr string
	TTL       time.Duration
	OpTimeout time.Duration
}

type Config struct {
	Addr            string
	LogLevel        string
	LogConsole      bool
	DBPath          string
	SkyRes          int
	MaxRecDefault   int
	MaxRecLimit     int
	ShutdownTimeout time.Duration
	Cache           CacheCfg
	Invalidation    InvalidationCfg
}

func FromEnv() Config {
	res := getint("SKY_RES", 3)
	if res < 0 {
		res = 0
	}
	if res > 15 {
		res = 15
	}

	maxrecDefault := getint("MAXREC_DEFAULT", 100)
	if maxrecDefault < 0 {
		maxrecDefault = 100
	}
	maxrecLimit := getint("MAXREC_LIMIT", 10000)
	if maxrecLimit < maxrecDefault {
		maxrecLimit = maxrecDefault
	}

	return Config{
		Addr:            getenv("ADDR", ":8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogConsole:      getbool("LOG_CONSOLE", false),
		DBPath:          getenv("DB_PATH", "obscore.db"),
		SkyRes:          res,
		MaxRecDefault:   maxrecDefault,
		MaxRecLimit:     maxrecLimit,
		ShutdownTimeout: getduration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Cache: CacheCfg{
			Enabled:   getbool("CACHE_ENABLED", false),
			RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
			TTL:       getduration("CACHE_TTL", 60*time.Second),
			OpTimeout: getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		},
		Invalidation: InvalidationCfg{
			Enabled: getbool("INVALIDATION_ENABLED", false),
			Topic:   getenv("KAFKA_TOPIC", "catalog-invalidation"),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			GroupID: getenv("KAFKA_GROUP_ID", "sia-cache-invalidator"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
