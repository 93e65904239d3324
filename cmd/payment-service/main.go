package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/app/background"
	"github.com/LavaJover/shvark-payment-service/internal/app/setup"
	"github.com/LavaJover/shvark-payment-service/internal/config"
	"github.com/LavaJover/shvark-payment-service/internal/delivery/events"
	"github.com/LavaJover/shvark-payment-service/internal/delivery/grpcapi"
	httpapi "github.com/LavaJover/shvark-payment-service/internal/delivery/http"
	"github.com/LavaJover/shvark-payment-service/internal/delivery/http/handlers"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Reading config
	cfg := config.MustLoad()

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		logrus.Fatalf("failed to init dependencies: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logrus.WithError(err).Error("failed to close dependencies")
		}
	}()

	useCases, err := setup.InitializeUseCases(deps)
	if err != nil {
		logrus.Fatalf("failed to init use cases: %v", err)
	}

	// Webhook worker
	router, err := events.NewRouter(
		deps.WatermillLogger,
		deps.PubSub.Subscriber,
		deps.PubSub.Publisher,
		events.NewHandler(useCases.PaymentUsecase),
		events.DefaultRetryConfig(cfg.Queue.MaxRetries),
	)
	if err != nil {
		logrus.Fatalf("failed to init webhook router: %v", err)
	}

	httpServer := httpapi.NewServer(
		echo.New(),
		fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		handlers.NewPaymentHandler(useCases.PaymentUsecase),
		deps.Registry,
		router.IsRunning,
	)
	grpcServer := grpcapi.NewServer(cfg.GRPCServer.Host, cfg.GRPCServer.Port)
	tasks := background.NewBackgroundTasks(useCases.PaymentUsecase, cfg.Reconciler.Interval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.Info("starting webhook router")
		return router.Run(ctx)
	})

	g.Go(func() error {
		// webhooks are only accepted once something consumes them
		select {
		case <-router.Running():
		case <-ctx.Done():
			return nil
		}
		grpcServer.SetServing(true)
		return httpServer.Start()
	})

	g.Go(grpcServer.Start)

	g.Go(func() error {
		return tasks.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down")
		grpcServer.SetServing(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Stop(shutdownCtx)
		if err != nil {
			logrus.WithError(err).Error("error stopping http server")
		}
		grpcServer.Stop()
		if err := router.Close(); err != nil {
			logrus.WithError(err).Error("error stopping webhook router")
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("payment service stopped with error")
		return
	}
	logrus.Info("payment service stopped")
}
