package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"gymmando/internal/ratelimit"
	"gymmando/internal/util"
	"gymmando/pkg/mediatoken"
	"gymmando/pkg/session"
	"gymmando/services/token/internal/config"
	"gymmando/services/token/internal/server"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load config: %v\n", err)
		os.Exit(1)
	}

	util.InitLogger(cfg.LogLevel)

	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	minter, err := mediatoken.NewMinter(cfg.MediaAPIKey, cfg.MediaAPISecret, ttl)
	if err != nil {
		util.Fatal("failed to init token minter", "err", err)
	}

	serverCfg := server.Config{
		Minter:      minter,
		Rooms:       session.NewRoomRegistry(cfg.RedisAddr, cfg.RedisPassword, ttl),
		DefaultRoom: cfg.DefaultRoom,
	}
	if cfg.RateLimitPerMinute > 0 {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "", cfg.RateLimitPerMinute, time.Minute)
		if err != nil {
			util.Fatal("failed to init rate limiter", "err", err)
		}
		serverCfg.Limiter = limiter
	}
	if len(cfg.TrustedProxies) > 0 {
		proxies, err := util.NewTrustedProxies(cfg.TrustedProxies)
		if err != nil {
			util.Fatal("invalid trusted proxies", "err", err)
		}
		serverCfg.TrustedProxies = proxies
	}
	httpServer := server.New(serverCfg)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("token server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		util.Fatal("token server error", "err", err)
	}
}
