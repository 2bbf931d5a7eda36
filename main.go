package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// setup and run app
	if err := app.SetupAndRunServer(ctx); err != nil {
		log.Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}
