package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/utils/response"
)

const shutdownTimeout = 10 * time.Second

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress, appName string) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:      appName,
			ErrorHandler: response.ErrorHandler,
			BodyLimit:    1 << 20,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

// Run listens until ctx is cancelled, then drains in-flight requests.
func (s *APIServer) Run(ctx context.Context) error {
	log.Infow("Starting API Server", "address", s.listenAddress)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- s.app.Listen(s.listenAddress)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down API Server")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	if err := <-listenErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
