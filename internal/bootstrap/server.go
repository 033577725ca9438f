package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avikulin/flightbot/api"
	"github.com/avikulin/flightbot/config"
	"github.com/avikulin/flightbot/internal/service/chat"
	"github.com/avikulin/flightbot/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, chatSvc chat.ChatUseCase) error {
	router := gin.Default()

	api.NewFlightHandler(flightSvc).Register(router.Group("/flights"))
	api.NewChatHandler(chatSvc).Register(router.Group("/conversations"))

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
