package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/app"
	"github.com/niksmo/storefront/pkg/sigctx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	cfg := config.Load()
	cfg.Print()

	storefront := app.New(sigCtx, cfg)
	storefront.Run(stop)

	<-sigCtx.Done()
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	storefront.Close(ctx)
}
