package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finance-manager/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 30 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MountOps registers /healthz and /metrics on mux. A nil pinger makes the
// health check always succeed.
func MountOps(mux *http.ServeMux, pinger Pinger) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				WriteText(w, http.StatusServiceUnavailable, "unhealthy: "+err.Error())
				return
			}
		}
		WriteText(w, http.StatusOK, "ok")
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}))
}

// Serve runs srv until ctx is canceled or the listener fails, then shuts it
// down gracefully.
func Serve(ctx context.Context, srv *http.Server, logger zerolog.Logger) error {
	t, ctx := tomb.WithContext(ctx)

	t.Go(func() error {
		// Started from a tracked goroutine so the tomb cannot be dead yet.
		t.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("shutdown")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		})

		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	err := t.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
