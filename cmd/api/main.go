package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/finboard/internal/app"
	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/events"
	finboardHttp "github.com/MrJamesThe3rd/finboard/internal/http"
	accountHandler "github.com/MrJamesThe3rd/finboard/internal/http/account"
	billHandler "github.com/MrJamesThe3rd/finboard/internal/http/bill"
	dashboardHandler "github.com/MrJamesThe3rd/finboard/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/finboard/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/finboard/internal/http/matching"
	txHandler "github.com/MrJamesThe3rd/finboard/internal/http/transaction"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		accountsH     = accountHandler.NewHandler(a.Ledger)
		transactionsH = txHandler.NewHandler(a.Ledger)
		billsH        = billHandler.NewHandler(a.Ledger)
		dashboardH    = dashboardHandler.NewHandler(a.Ledger)
		importH       = importHandler.NewHandler(a.Importer, a.Ledger, a.Metrics)
		matchingH     = matchingHandler.NewHandler(a.Matching)
		exportH       = exportHandler.NewHandler(a.Export, a.Ledger)
	)

	router := finboardHttp.New(finboardHttp.Handlers{
		Accounts:     accountsH,
		Transactions: transactionsH,
		Bills:        billsH,
		Dashboard:    dashboardH,
		Import:       importH,
		Matching:     matchingH,
		Export:       exportH,
		Metrics:      promhttp.Handler(),
	}, cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
	server.RegisterOnShutdown(dashboardH.Shutdown)

	var forwarder *events.Forwarder

	if cfg.AMQP.URL != "" {
		client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("connecting to AMQP: %w", err)
		}
		defer client.Close()

		forwarder = events.NewForwarder(a.Ledger, client, a.Metrics)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "port", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.Ledger.RefreshEvery(ctx, cfg.Ledger.RefreshInterval)
	})

	if forwarder != nil {
		g.Go(func() error {
			if err := forwarder.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("event forwarder: %w", err)
			}

			return nil
		})
	}

	return g.Wait()
}
