package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wogarma/missions-api/api/handlers"
	"github.com/wogarma/missions-api/api/scheduler"
	"github.com/wogarma/missions-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()
	defer func() { _ = zap.L().Sync() }()

	if err := a.Initialize(); err != nil {
		zap.S().Fatalw("failed to initialize missions-api", "error", err)
	}

	s := scheduler.New(a.DB)
	s.Start()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", a.Config.Port),
		Handler: a.Router,
	}

	go func() {
		zap.S().Infow("missions-api is up and running",
			"port", a.Config.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalw("server stopped", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Errorw("server shutdown failed", "error", err)
	}
	if err := a.Shutdown(ctx); err != nil {
		zap.S().Errorw("database disconnect failed", "error", err)
	}
	zap.S().Info("missions-api stopped")
}
