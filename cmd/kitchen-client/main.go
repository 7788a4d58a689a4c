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

	"github.com/jcmexdev/lanchonete-stations/internal/infra/adapters/service"
	"github.com/jcmexdev/lanchonete-stations/internal/infra/httpx"
	"github.com/jcmexdev/lanchonete-stations/internal/kitchen-client/app"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/config"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/telemetry"
)

const station = "kitchen-client"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	telemetry.InitLogger(station)

	base := config.Defaults()
	base.ControlAddr = ":8082"
	cfg, err := config.Load(*configPath, base)
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

	kitchenSvc := service.NewHTTPKitchenService(service.NewClient(cfg.KitchenAPIURL, cfg.HTTPTimeout))
	inventorySvc := service.NewHTTPInventoryService(service.NewClient(cfg.InventoryAPIURL, cfg.HTTPTimeout))

	kitchen := app.NewKitchen(app.NewBoard(), kitchenSvc, inventorySvc, app.WithCancelReason(cfg.DefaultCancelReason))

	handler := httpx.NewHandler(station, func() any { return kitchen.View(cfg.DefaultStockMinimum) }, kitchen.Commands(cfg.DefaultStockMinimum))
	srv := &http.Server{
		Addr:              cfg.ControlAddr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return kitchen.Poll(gctx, cfg.PollInterval) })
	g.Go(func() error {
		slog.Info("kitchen control surface running", "addr", cfg.ControlAddr, "poll_interval", cfg.PollInterval)
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

	if err := g.Wait(); err != nil {
		slog.Error("kitchen client stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("kitchen client stopped")
}
