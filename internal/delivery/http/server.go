package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/delivery/http/handlers"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const webhookBodyLimit = "1M"

type Server struct {
	e    *echo.Echo
	addr string
}

func NewServer(
	e *echo.Echo,
	addr string,
	paymentHandler *handlers.PaymentHandler,
	gatherer prometheus.Gatherer,
	routerIsRunning func() bool,
) *Server {
	srv := &Server{
		e:    e,
		addr: addr,
	}
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger)

	e.POST("/orders", paymentHandler.CreateOrder)
	e.POST("/verify", paymentHandler.VerifyPayment)
	e.POST("/webhook", paymentHandler.Webhook, middleware.BodyLimit(webhookBodyLimit))
	e.GET("/bookings/:code", paymentHandler.GetBooking)

	e.GET("/health", func(c echo.Context) error {
		if !routerIsRunning() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return srv
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		entry := logrus.WithFields(logrus.Fields{
			"method":   c.Request().Method,
			"path":     c.Path(),
			"status":   c.Response().Status,
			"duration": time.Since(start).String(),
		})
		if err != nil {
			entry.WithError(err).Error("request handling error")
		} else if c.Path() != "/health" && c.Path() != "/metrics" {
			entry.Debug("handled request")
		}

		return err
	}
}

func (s *Server) Start() error {
	logrus.WithField("addr", s.addr).Info("http server listening")
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
