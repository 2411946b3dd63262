// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"clinical-score-workers/internal/common/camunda"
	"clinical-score-workers/internal/common/config"
	"clinical-score-workers/internal/common/logger"
	"clinical-score-workers/internal/common/metrics"
	"clinical-score-workers/internal/common/observability"
	"clinical-score-workers/internal/instruments"

	es "clinical-score-workers/internal/workers/scoring/evaluate-score"
	tf "clinical-score-workers/internal/workers/scoring/toggle-factor"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel exporter unavailable, continuing without it", zap.Error(err))
	}
	defer obs.Shutdown()

	// --- Instrument catalog ---
	catalog, err := instruments.Open(cfg.Instruments.RegistryPath)
	if err != nil {
		zapLog.Fatal("instrument catalog failed to load",
			zap.String("path", cfg.Instruments.RegistryPath), zap.Error(err))
	}
	metrics.CatalogInstruments.Set(float64(catalog.Len()))
	zapLog.Info("instrument catalog loaded",
		zap.Int("instruments", catalog.Len()),
		zap.String("version", catalog.Version()),
	)

	// --- Zeebe client with retry ---
	var client *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		client, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	topology, err := client.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		return client.GetClient().NewTopologyCommand().Send(ctx)
	}, "topology")
	if err != nil {
		zapLog.Fatal("zeebe topology unavailable", zap.Error(err))
	}
	if resp, ok := topology.(*pb.TopologyResponse); ok {
		zapLog.Info("zeebe cluster",
			zap.Int32("clusterSize", resp.GetClusterSize()),
			zap.String("gatewayVersion", resp.GetGatewayVersion()),
		)
	}

	// --- Workers ---
	var workers []worker.JobWorker

	if config.IsWorkerEnabled(cfg, es.TaskType) {
		evalCfg := config.GetWorkerConfig(cfg, es.TaskType)
		evalHandler := es.NewHandler(&es.Config{
			Timeout:              config.GetDuration(evalCfg.Timeout),
			RejectGroupConflicts: evalCfg.RejectGroupConflicts,
		}, catalog, obs, log)
		workers = append(workers, camunda.StartWorker(client.GetClient(), es.TaskType, evalCfg, evalHandler.Handle, zapLog))
	} else {
		zapLog.Info("worker disabled", zap.String("taskType", es.TaskType))
	}

	if config.IsWorkerEnabled(cfg, tf.TaskType) {
		toggleCfg := config.GetWorkerConfig(cfg, tf.TaskType)
		toggleHandler := tf.NewHandler(&tf.Config{
			Timeout: config.GetDuration(toggleCfg.Timeout),
		}, catalog, log)
		workers = append(workers, camunda.StartWorker(client.GetClient(), tf.TaskType, toggleCfg, toggleHandler.Handle, zapLog))
	} else {
		zapLog.Info("worker disabled", zap.String("taskType", tf.TaskType))
	}

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := client.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	camunda.StopWorkers(workers, zapLog)

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := client.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
