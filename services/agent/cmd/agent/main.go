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

	"gymmando/internal/util"
	"gymmando/pkg/ai"
	"gymmando/pkg/session"
	"gymmando/pkg/store"
	"gymmando/services/agent/internal/config"
	"gymmando/services/agent/internal/server"
	"gymmando/services/agent/internal/workout"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load config: %v\n", err)
		os.Exit(1)
	}

	util.InitLogger(cfg.LogLevel)

	workoutStore, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		util.Fatal("failed to init postgres store", "err", err)
	}

	llm := ai.NewOpenAICompatGenerator(cfg.CompletionBaseURL, cfg.CompletionAPIKey, cfg.CompletionModel)
	graph := workout.NewGraph(
		workout.NewParser(llm),
		workout.NewRetriever(llm, workoutStore),
		workoutStore,
	)

	serverCfg := server.Config{
		Graph:       graph,
		TurnTimeout: time.Duration(cfg.TurnTimeoutSec) * time.Second,
	}
	if cfg.RedisAddr != "" {
		serverCfg.Rooms = session.NewRoomRegistry(cfg.RedisAddr, cfg.RedisPassword, 0)
	}
	httpServer := server.New(serverCfg)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("agent server listening", "addr", addr)
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
		util.Fatal("agent server error", "err", err)
	}
}
