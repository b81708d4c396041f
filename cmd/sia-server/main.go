package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/skysurvey-io/sia-obscore/internal/app/server"
	"github.com/skysurvey-io/sia-obscore/internal/cache"
	"github.com/skysurvey-io/sia-obscore/internal/cache/rediscache"
	"github.com/skysurvey-io/sia-obscore/internal/config"
	"github.com/skysurvey-io/sia-obscore/internal/health"
	"github.com/skysurvey-io/sia-obscore/internal/invalidation/kafkaconsumer"
	"github.com/skysurvey-io/sia-obscore/internal/logger"
	"github.com/skysurvey-io/sia-obscore/internal/service"
	"github.com/skysurvey-io/sia-obscore/internal/skymap"
	"github.com/skysurvey-io/sia-obscore/internal/store/sqlitestore"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "sia-server",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	appLog.Info("starting sia-server",
		"addr", cfg.Addr,
		"version", Version,
		"db", cfg.DBPath,
		"sky_res", cfg.SkyRes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mapper, err := skymap.New(cfg.SkyRes)
	if err != nil {
		appLog.Error("sky mapper init failed", "err", err)
		return 1
	}

	st, err := sqlitestore.New(cfg.DBPath, mapper)
	if err != nil {
		appLog.Error("catalog store init failed", "err", err)
		return 1
	}
	defer func() { _ = st.Close() }()

	deps := map[string]health.Pinger{"catalog": st}
	opts := []service.Option{
		service.WithMaxRec(cfg.MaxRecDefault, cfg.MaxRecLimit),
	}

	var respCache cache.Interface
	if cfg.Cache.Enabled {
		rc, err := rediscache.New(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			appLog.Error("redis cache init failed", "err", err)
			return 1
		}
		defer func() { _ = rc.Close() }()
		respCache = rc
		deps["cache"] = rc
		opts = append(opts, service.WithCache(rc, cfg.Cache.TTL, cfg.Cache.OpTimeout))
	}

	if cfg.Invalidation.Enabled {
		if respCache == nil {
			appLog.Error("invalidation requires the cache to be enabled")
			return 1
		}
		kcfg := kafkaconsumer.NewConfig(cfg.Invalidation.Brokers, cfg.Invalidation.Topic, cfg.Invalidation.GroupID)
		consumerLog := logger.Build(logger.Config{
			Level:     cfg.LogLevel,
			Console:   cfg.LogConsole,
			Component: "kafka_consumer",
		}, os.Stdout)
		consumer := kafkaconsumer.New(kcfg, &consumerLog, respCache)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				appLog.Error("invalidation consumer exited", "err", err)
			}
		}()
	}

	h := service.New(appLog, st, opts...)

	if err := server.Run(ctx, cfg, appLog, h, deps, Version); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
