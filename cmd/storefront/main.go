package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/config"
	"OrderDesk/internal/session"
	"OrderDesk/internal/storefront"
	"OrderDesk/pkg/kit"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		kit.NewLogger("storefront", "info").Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(cfg.Service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store, prefs, cleanup := buildStores(cfg, log)

	cache := apiclient.NewCache(store,
		apiclient.WithCacheLogger(log),
		apiclient.WithCacheMetrics(apiclient.NewCacheMetrics(reg)),
	)

	api := apiclient.NewClient(cfg.Backend.BaseURL, cache, cfg.Backend.RequestTimeout)
	api.Log = log

	h, err := storefront.NewHandler(
		storefront.Deps{
			API:   api,
			Prefs: prefs,
			Cookies: session.NewCookies(session.CookieConfig{
				Secure: cfg.Cookies.Secure,
				Domain: cfg.Cookies.Domain,
			}),
			MenuCacheFor:   cfg.Cache.Duration,
			OTPLimitPerMin: cfg.Limits.OTPPerMinute,
			TrustedProxies: cfg.Limits.TrustedProxies,
		},
		storefront.HTTPDeps{
			Log:            log,
			Service:        cfg.Service,
			Registry:       reg,
			MetricsEnabled: true,
			MetricsToken:   cfg.MetricsToken,
		},
	)
	if err != nil {
		log.Fatal("init storefront handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log, kit.DefaultServerTimeouts, cleanup...); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStores(cfg *config.Config, log *zap.Logger) (apiclient.Store, session.PrefStore, []func(context.Context) error) {
	if cfg.Cache.Backend != config.CacheBackendRedis {
		log.Info("using in-memory cache and preferences")
		return apiclient.NewMemoryStore(), session.NewMemPrefStore(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.RequestTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis ping failed", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
	}
	log.Info("using redis cache and preferences", zap.String("addr", cfg.Redis.Addr()))

	closeRedis := func(context.Context) error { return rdb.Close() }
	return apiclient.NewRedisStore(rdb), session.NewRedisPrefStore(rdb), []func(context.Context) error{closeRedis}
}
