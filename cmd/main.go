package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/lead-funnel/config"
	"github.com/oksasatya/lead-funnel/internal/container"
	"github.com/oksasatya/lead-funnel/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/lead-funnel/internal/infrastructure/postgres"
	"github.com/oksasatya/lead-funnel/internal/infrastructure/redisstore"
	"github.com/oksasatya/lead-funnel/internal/infrastructure/search"
	"github.com/oksasatya/lead-funnel/internal/router"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
	"github.com/oksasatya/lead-funnel/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Record store
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
		container.SetStore(pginfra.NewStore(pool))
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		container.SetStore(memory.NewStore())
	}

	// Sessions
	switch cfg.SessionDriver {
	case "redis":
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
		container.SetSessions(redisstore.NewSessionStore(rdb))
	default:
		container.SetSessions(memory.NewSessionStore())
	}

	// Elasticsearch (optional lead search)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else if err := helpers.EnsureIndex(ctx, es, cfg.ESLeadsIndex, search.LeadsMapping); err != nil {
			logger.WithError(err).Warn("elasticsearch index unavailable, search falls back to the store")
		} else {
			container.SetES(es)
		}
	}

	// GCS (optional subscription export)
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs disabled, exports unavailable")
		} else {
			defer func() { _ = gcsClient.Close() }()
			container.SetGCS(gcsClient)
		}
	}

	services := router.BuildServices()

	if services.Leads.Index != nil {
		n, err := services.Leads.Reindex(ctx)
		if err != nil {
			logger.WithError(err).Warn("lead reindex failed, search may miss older leads until they change")
		} else {
			logger.WithField("count", n).Info("lead index rebuilt from store")
		}
	}

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		created, err := services.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			logger.Fatalf("failed to seed admin: %v", err)
		}
		if created {
			logger.WithField("username", cfg.AdminUsername).Info("admin user created")
		}
	}

	r := router.NewEngine(cfg, logger)
	reg := router.NewRegistry(r)
	router.InitModules(reg, services)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}
