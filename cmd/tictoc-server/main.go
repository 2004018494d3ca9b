package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaminalder/tictoc/internal/app"
	"github.com/jaminalder/tictoc/internal/config"
	"github.com/jaminalder/tictoc/internal/web"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", os.Getenv("TICTOC_CONFIG"), "Path to a YAML config file")
	addr       = flag.String("addr", "", "Address to listen on, overrides the config")
)

func main() {
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	log, err := cfg.Logger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	opts := []app.Option{app.WithLogger(log)}
	if cfg.Seed != 0 {
		opts = append(opts, app.WithSeed(cfg.Seed))
	}
	svc := app.NewService(opts...)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(svc, web.WithLogger(log), web.WithHeartbeat(cfg.HeartbeatInterval)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}
