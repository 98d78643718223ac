package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Merctxt/contrl-financeiro/internal/config"
	"github.com/Merctxt/contrl-financeiro/internal/observability"
	"github.com/Merctxt/contrl-financeiro/internal/service"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server

	sessions service.SessionServiceInterface
	stop     chan struct{}
	done     chan struct{}
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, sessions service.SessionServiceInterface) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Server:   server,
		sessions: sessions,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// StartSweeper runs the inactivity sweep on a fixed interval until Shutdown.
// One sweep runs immediately so a long-stopped instance catches up on boot.
func (a *App) StartSweeper() {
	go func() {
		defer close(a.done)
		a.sweepOnce()
		ticker := time.NewTicker(a.Config.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.sweepOnce()
			case <-a.stop:
				return
			}
		}
	}()
}

func (a *App) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	count, err := a.sessions.SweepInactive(ctx)
	if err != nil {
		a.Logger.Error("session sweep failed", "error", err)
		return
	}
	observability.RecordSessionsSwept(ctx, count)
}

func (a *App) Shutdown(ctx context.Context) error {
	close(a.stop)
	err := a.Server.Shutdown(ctx)
	select {
	case <-a.done:
	case <-ctx.Done():
	}
	return err
}
