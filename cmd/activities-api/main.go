// cmd/activities-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mergington-activities/internal/common/config"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/metrics"
	"mergington-activities/internal/common/observability"
	"mergington-activities/internal/events"
	"mergington-activities/internal/registry"
	"mergington-activities/internal/server"
	"mergington-activities/pkg/catalog"
	"mergington-activities/web"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, sources, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	bootLog.Sync()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).
		With(zap.String("service", cfg.App.Name), zap.String("version", cfg.App.Version))
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting activities API", map[string]interface{}{
		"environment": cfg.App.Environment,
		"config_file": sources.ConfigFile,
		"env_file":    sources.EnvFile,
	})

	cat, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err), zap.String("path", cfg.Catalog.Path))
	}
	reg, err := registry.New(cat.Records())
	if err != nil {
		zapLog.Fatal("registry init failed", zap.Error(err))
	}
	for _, a := range reg.Snapshot() {
		metrics.RosterParticipants.WithLabelValues(a.Name).Set(float64(len(a.Participants)))
	}
	log.Info("Activity catalog loaded", map[string]interface{}{
		"activities": len(reg.Names()),
		"version":    cat.Version,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	tracing, err := observability.NewTracing(ctx, cfg.Tracing, cfg.App.Name, cfg.App.Version)
	if err != nil {
		log.WithError(err).Warn("Tracing disabled, exporter setup failed", nil)
	}

	backends, err := connectBackends(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("backend setup failed", zap.Error(err))
	}
	defer backends.Close()

	dispatcher := events.NewDispatcher(
		backends.sinks,
		cfg.Events.QueueSize,
		config.GetDuration(cfg.Events.Timeout),
		log.WithFields(map[string]interface{}{"component": "events"}),
		obs,
	)
	log.Info("Event dispatcher started", map[string]interface{}{"sinks": dispatcher.Sinks()})

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	srv := server.New(server.Options{
		Registry:      reg,
		Events:        dispatcher,
		Logger:        log,
		Observability: obs,
		Tracer:        tracing.Tracer(),
		Static:        web.Static(),
		CORSOrigins:   cfg.Server.CORSOrigins,
		MetricsPath:   metricsPath,
		Checks:        backends.checks,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"address": cfg.Server.Address})
		srvErr <- httpServer.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server error", nil)
		}
	case <-stopCtx.Done():
		log.Info("Shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("HTTP server shutdown error", nil)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("Event queue not fully drained", nil)
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Tracer shutdown error", nil)
	}

	log.Info("Activities API stopped", nil)
}
