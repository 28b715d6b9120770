package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"triage-advisor/internal/config"
	"triage-advisor/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

// ListenAndServe serves the router on the configured port until ctx is
// cancelled, then drains in-flight requests.
func (a *App) ListenAndServe(ctx context.Context) error {
	router, err := a.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout(a.Config.LLM),
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// writeTimeout covers every stage call plus the rate limiter spacing before
// each one. Without a call timeout a run has no upper bound, so neither does
// the response.
func writeTimeout(llm config.LLMConfig) time.Duration {
	if llm.CallTimeout <= 0 {
		return 0
	}
	perCall := llm.CallTimeout
	if llm.MaxRPM > 0 {
		perCall += time.Minute / time.Duration(llm.MaxRPM)
	}
	return time.Duration(len(pipeline.Stages()))*perCall + time.Minute
}
