// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"algolend-workers/internal/bureau"
	"algolend-workers/internal/common/aws"
	"algolend-workers/internal/common/config"
	"algolend-workers/internal/common/database"
	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/common/observability"
	"algolend-workers/internal/directory"
	"algolend-workers/internal/engine"
	"algolend-workers/pkg/registry"

	// Decision Workers (7)
	bdr "algolend-workers/internal/workers/decision/build-decision-response"
	fbr "algolend-workers/internal/workers/decision/fetch-bureau-report"
	idx "algolend-workers/internal/workers/decision/index-decision"
	psr "algolend-workers/internal/workers/decision/persist-score-result"
	sa "algolend-workers/internal/workers/decision/score-application"
	sdn "algolend-workers/internal/workers/decision/send-decision-notification"
	vad "algolend-workers/internal/workers/decision/validate-applicant-data"
)

const registryPath = "configs/activity-registry.json"

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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Domain Setup ---
	// Both the scoring policy and the employer directory are fail-closed:
	// a manager that cannot score correctly must not pick up jobs at all.
	policy, err := engine.NewPolicy(cfg.Engine)
	if err != nil {
		zapLog.Fatal("scoring policy rejected", zap.Error(err))
	}
	zapLog.Info("Scoring policy loaded",
		zap.Float64("totalWeight", policy.TotalWeight),
		zap.Float64("approveAt", policy.ApproveAt),
		zap.Float64("referAt", policy.ReferAt),
	)

	table, err := directory.LoadTable(cfg.Directory.Path)
	if err != nil {
		zapLog.Fatal("employer directory load failed",
			zap.Error(commonerrors.NewDirectoryLoadError(cfg.Directory.Path, err)))
	}
	matcher := directory.NewMatcher(table)
	zapLog.Info("Employer directory loaded",
		zap.String("path", cfg.Directory.Path),
		zap.Int("entries", table.Len()),
	)

	eng := engine.New(policy, matcher, nil)

	bureauClient := bureau.New(cfg.Bureau, redis, log)
	zapLog.Info("Bureau client ready", zap.String("provider", cfg.Bureau.Provider))

	// --- START: Register Decision Workers (7) ---

	if cfg.Workers[vad.TaskType].Enabled {
		handler := vad.NewHandler(
			&vad.Config{
				Timeout: time.Duration(cfg.Workers[vad.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, vad.TaskType, cfg.Workers[vad.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[fbr.TaskType].Enabled {
		handler := fbr.NewHandler(
			&fbr.Config{
				Timeout: time.Duration(cfg.Workers[fbr.TaskType].Timeout) * time.Millisecond,
			},
			bureauClient, log,
		)
		startWorker(zeebeClient, fbr.TaskType, cfg.Workers[fbr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sa.TaskType].Enabled {
		handler := sa.NewHandler(
			&sa.Config{
				Timeout: time.Duration(cfg.Workers[sa.TaskType].Timeout) * time.Millisecond,
			},
			eng, log,
		)
		startWorker(zeebeClient, sa.TaskType, cfg.Workers[sa.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[psr.TaskType].Enabled {
		handler := psr.NewHandler(
			&psr.Config{
				Timeout: time.Duration(cfg.Workers[psr.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, psr.TaskType, cfg.Workers[psr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[idx.TaskType].Enabled {
		handler := idx.NewHandler(
			&idx.Config{
				Timeout:   time.Duration(cfg.Workers[idx.TaskType].Timeout) * time.Millisecond,
				IndexName: cfg.Database.Elasticsearch.DecisionIndex,
			},
			idx.NewESIndexer(esClient.Client), log,
		)
		startWorker(zeebeClient, idx.TaskType, cfg.Workers[idx.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sdn.TaskType].Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
		handler := sdn.NewHandler(
			&sdn.Config{
				Timeout:      time.Duration(cfg.Workers[sdn.TaskType].Timeout) * time.Millisecond,
				AWSRegion:    cfg.Notifications.AWSRegion,
				SenderEmail:  cfg.Notifications.SenderEmail,
				EmailEnabled: true,
				SMSEnabled:   cfg.Notifications.SMSEnabled,
			},
			pg.DB, sesClient, snsClient, log,
		)
		startWorker(zeebeClient, sdn.TaskType, cfg.Workers[sdn.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[bdr.TaskType].Enabled {
		handler := bdr.NewHandler(
			&bdr.Config{
				Timeout:    time.Duration(cfg.Workers[bdr.TaskType].Timeout) * time.Millisecond,
				AppVersion: cfg.App.Version,
			},
			log,
		)
		startWorker(zeebeClient, bdr.TaskType, cfg.Workers[bdr.TaskType], handler.Handle, zapLog)
	}

	// --- END: Register Decision Workers ---

	zapLog.Info("All decision workers registered successfully")

	// Cross-check registered workers against the activity registry so BPMN
	// modellers and the running binary cannot silently drift apart.
	if reg, err := registry.LoadRegistry(registryPath); err != nil {
		zapLog.Warn("activity registry unavailable", zap.Error(err))
	} else {
		for _, taskType := range []string{
			vad.TaskType, fbr.TaskType, sa.TaskType, psr.TaskType,
			idx.TaskType, sdn.TaskType, bdr.TaskType,
		} {
			if reg.FindByTaskType(taskType) == nil {
				zapLog.Warn("worker not present in activity registry", zap.String("taskType", taskType))
			}
		}
		zapLog.Info("Activity registry checked",
			zap.String("version", reg.Version),
			zap.Int("activities", len(reg.Activities)),
		)
	}

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
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

	_ = shutdownCtx

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
