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

	"github.com/Merctxt/contrl-financeiro/internal/di"
	"github.com/Merctxt/contrl-financeiro/internal/observability"
)

func main() {
	a, err := di.InitializeApp()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	tp, err := observability.InitTracing(ctx, a.Config, a.Logger)
	if err != nil {
		log.Fatal(err)
	}

	a.StartSweeper()

	go func() {
		a.Logger.Info("server starting", "addr", a.Server.Addr, "env", a.Config.Env)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown failed", "error", err)
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("tracer shutdown failed", "error", err)
	}
}
