package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/dca/config"
	"github.com/rs/zerolog/log"
)

// shutdownTimeout bounds the time given to in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

// ListenAndServe serves handler until ctx is done, then shuts down gracefully.
func ListenAndServe(ctx context.Context, cfg config.Server, handler http.Handler) error {
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("static", cfg.Static).Msg("server started")
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
