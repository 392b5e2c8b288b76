package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"wingo/internal/config"
	"wingo/internal/server"
)

func gracefulShutdown(srv *server.FiberServer, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logrus.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
	}

	logrus.Info("server exiting")
	done <- true
}

func main() {
	cfg := config.Load()
	cfg.SetupLogging()

	if cfg.JWTSecret == "" {
		if cfg.AppEnv != "local" {
			logrus.Fatal("JWT_SECRET is required outside local development")
		}
		logrus.Warn("JWT_SECRET is empty, every bearer token will be rejected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := server.New(ctx, cfg)
	cancel()
	if err != nil {
		logrus.WithError(err).Fatal("failed to start")
	}

	done := make(chan bool, 1)
	go gracefulShutdown(srv, done)

	logrus.WithFields(logrus.Fields{
		"port":           cfg.Port,
		"env":            cfg.AppEnv,
		"round_duration": cfg.RoundDuration,
		"house":          cfg.House.Enabled,
	}).Info("wingo listening")

	if err := srv.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logrus.WithError(err).Fatal("http server error")
	}

	<-done
}
