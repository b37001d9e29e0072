package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/selim/pkg/adapters/http"
	"golang.org/x/time/rate"
)

// ShutdownTimeout bounds how long in-flight requests get after a shutdown signal.
const ShutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the HTTP API for one conversation.
func NewHTTPHandler(ctx context.Context, app *App) (http.Handler, error) {
	conv, err := app.NewConversation(ctx)
	if err != nil {
		return nil, err
	}
	hc := app.Config.HTTP
	return httpAdapter.NewHandler(app.Companion, conv,
		httpAdapter.WithRateLimit(rate.Limit(hc.RateLimit), hc.RateBurst),
		httpAdapter.WithAllowedOrigins(hc.AllowedOrigins),
		httpAdapter.WithMetricsHandler(app.Metrics.Handler()),
		httpAdapter.WithLogger(app.Logger),
	)
}

// Serve runs the HTTP API on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, app *App, addr string) error {
	handler, err := NewHTTPHandler(ctx, app)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("starting selim server", "addr", srv.Addr, "remote", app.Companion.Remote())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		app.Logger.Info("start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		app.Logger.Info("selim server stopped gracefully")
		return nil
	}
}
