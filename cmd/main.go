package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"points-wallet/internal/app"
	"points-wallet/internal/config"
	"syscall"
)

func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Info("Starting points wallet", "env", cfg.Server.Env)

	application := app.New(log, cfg)

	if err := application.Sweeper.Start(); err != nil {
		panic(err)
	}

	go application.HTTPServer.MustRun()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stop

	log.Info("Application stopping", slog.String("signal", sign.String()))

	if err := application.Stop(context.Background()); err != nil {
		log.Error("shutdown failed", slog.String("error", err.Error()))
	}
}
