package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "hotel_access/internal/adapters/http_server"
	"hotel_access/internal/adapters/observability"
	redisad "hotel_access/internal/adapters/redis"
	"hotel_access/internal/app"
	"hotel_access/internal/domain"
	"hotel_access/internal/shared"
	mysqlrepo "hotel_access/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// session cache is opt-in: while enabled, a deleted session keeps
	// authenticating until its entry expires
	var cache domain.Cache
	if cfg.SessionCacheTTL > 0 {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; session cache degraded")
		}
		log.Info().Dur("ttl", cfg.SessionCacheTTL).Msg("session cache enabled")
		cache = rc
	}

	// deps
	repo := mysqlrepo.New(db)
	hotels := app.NewHotelService(repo, repo, repo)
	sessions := app.NewSessionService(cfg.JWTSecret, repo, cache, cfg.SessionCacheTTL)

	// http
	reg := observability.InitRegistry()
	srv := server.New(server.Options{
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxy,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{H: hotels, Auth: sessions})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return observability.Serve(gctx, cfg.MetricsAddr, reg) })
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("stopped")
}
