package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/saad-bin-saud/my-chess-project/internal/arena"
	appcfg "github.com/saad-bin-saud/my-chess-project/internal/config"
	"github.com/saad-bin-saud/my-chess-project/internal/msgcat"
	"github.com/saad-bin-saud/my-chess-project/internal/obslog"
	"github.com/saad-bin-saud/my-chess-project/internal/oracle"
	"github.com/saad-bin-saud/my-chess-project/internal/transport/ws"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.L().Sync()

	cat, err := msgcat.New(cfg.MsgTemplateDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	co := arena.NewCoordinator(oracle.NewEngine(), cfg.RoomTTL)
	go co.Run(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           ws.NewRouter(co, cat, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	obslog.L().Info("server_start",
		zap.Int("port", cfg.Port),
		zap.Duration("room_ttl", cfg.RoomTTL),
	)

	select {
	case <-ctx.Done():
		obslog.L().Info("server_shutdown_signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			obslog.L().Fatal("server_listen_error", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		obslog.L().Warn("server_shutdown_error", zap.Error(err))
	}
	obslog.L().Info("server_stopped")
}
