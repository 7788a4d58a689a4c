package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/lanchonete-stations/internal/coordinator"
	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
	"github.com/jcmexdev/lanchonete-stations/internal/infra/adapters/events"
	"github.com/jcmexdev/lanchonete-stations/internal/infra/adapters/service"
	"github.com/jcmexdev/lanchonete-stations/internal/infra/httpx"
	"github.com/jcmexdev/lanchonete-stations/internal/intake-client/app"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/cache"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/config"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/telemetry"
)

const station = "intake-client"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	telemetry.InitLogger(station)

	cfg, err := config.Load(*configPath, config.Defaults())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, station)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	rounds, err := coordinator.OpenRoundLog(ctx, cfg.RoundLogDSN)
	if err != nil {
		slog.Error("failed to open round log", "error", err)
		os.Exit(1)
	}
	if rounds != nil {
		defer rounds.Close()
	}

	orderAPI := service.NewClient(cfg.OrderAPIURL, cfg.HTTPTimeout)
	orders := service.NewHTTPOrderService(orderAPI)

	var menu ports.MenuService = service.NewHTTPMenuService(orderAPI)
	if cfg.Redis.Addr != "" {
		menu = service.NewCachedMenuService(menu, cache.NewRedisCache(cfg.Redis.Addr, "intake"), cfg.Redis.MenuCacheTTL)
		slog.Info("menu cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.MenuCacheTTL)
	}

	client := app.NewClient(menu, orders, app.NewSubmitter(orders, rounds), cfg.HistoryLimit)
	if _, err := client.LoadMenu(ctx); err != nil {
		slog.Warn("initial menu load failed", "error", err)
	}
	if err := client.LoadHistory(ctx); err != nil {
		slog.Warn("initial history load failed", "error", err)
	}

	handler := httpx.NewHandler(station, func() any { return client.View() }, client.Commands())
	srv := &http.Server{
		Addr:              cfg.ControlAddr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("intake control surface running", "addr", cfg.ControlAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.RabbitMQ.URL != "" {
		listener := events.NewListener(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, func(ctx context.Context, ev events.StatusEvent) error {
			if !client.ApplyStatus(ev.IntakeID, ev.Status) {
				slog.DebugContext(ctx, "status event ignored", "pedido_caixa_id", ev.IntakeID, "status", string(ev.Status))
				return nil
			}
			if ev.Status == entity.StatusReady {
				slog.InfoContext(ctx, "order ready", "pedido_caixa_id", ev.IntakeID, "cliente", ev.ClientName, "item", ev.ItemName)
			}
			return nil
		})
		g.Go(func() error { return listener.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		slog.Error("intake client stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("intake client stopped")
}
