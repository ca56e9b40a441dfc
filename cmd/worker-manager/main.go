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

	"internship-match-workers/internal/common/camunda"
	"internship-match-workers/internal/common/config"
	"internship-match-workers/internal/common/database"
	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/common/observability"
	"internship-match-workers/internal/oracle/gemini"
	"internship-match-workers/internal/recommend"
	"internship-match-workers/internal/stores/internships"
	"internship-match-workers/internal/stores/profiles"
	"internship-match-workers/pkg/registry"

	nc "internship-match-workers/internal/workers/communication/notify-candidate"
	qi "internship-match-workers/internal/workers/data-access/query-internships"
	gr "internship-match-workers/internal/workers/recommendation/generate-recommendations"
	vp "internship-match-workers/internal/workers/recommendation/validate-profile"
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	if reg, err := registry.LoadRegistry("configs/activity-registry.json"); err == nil {
		if err := reg.Validate(); err != nil {
			zapLog.Warn("activity registry inconsistent", zap.Error(err))
		}
		zapLog.Info("activity registry loaded",
			zap.String("version", reg.Version),
			zap.Int("activities", len(reg.Activities)),
		)
		for taskType := range cfg.Workers {
			if reg.FindByTaskType(taskType) == nil {
				zapLog.Warn("configured worker not in activity registry",
					zap.String("taskType", taskType))
			}
		}
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
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

	if exists, err := esClient.IndexExists(ctx, cfg.Search.Index); err != nil {
		zapLog.Warn("search index check failed", zap.Error(err))
	} else if !exists {
		zapLog.Warn("search index missing, keyword search will fail",
			zap.String("index", cfg.Search.Index))
	}

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

	// --- Shared stores ---
	profileStore := profiles.NewStore(
		pg.DB,
		redis.Client,
		time.Duration(cfg.Recommend.ProfileCacheTTL)*time.Second,
		log,
	)
	listingStore := internships.NewStore(pg.DB, log)
	searchStore := internships.NewSearchStore(esClient.Client, cfg.Search.Index, log)

	// --- Re-ranking oracle ---
	var oracle recommend.Oracle
	if cfg.Oracle.Enabled {
		oracle = gemini.NewClient(gemini.Config{
			BaseURL: cfg.Oracle.BaseURL,
			APIKey:  cfg.Oracle.APIKey,
			Model:   cfg.Oracle.Model,
			Timeout: config.GetDuration(cfg.Oracle.Timeout),
		}, log)
		zapLog.Info("Gemini re-ranking oracle enabled")
	}

	// --- Register Workers ---

	if cfg.Workers[vp.TaskType].Enabled {
		handler := vp.NewHandler(
			&vp.Config{
				Timeout: config.GetDuration(cfg.Workers[vp.TaskType].Timeout),
			},
			log,
		)
		startWorker(zeebeClient, vp.TaskType, cfg.Workers[vp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[gr.TaskType].Enabled {
		handler := gr.NewHandler(
			&gr.Config{
				TopN:        cfg.Recommend.TopN,
				TopK:        cfg.Recommend.TopK,
				MaxListings: cfg.Recommend.MaxListings,
				Timeout:     config.GetDuration(cfg.Workers[gr.TaskType].Timeout),
			},
			profileStore, listingStore, oracle, log,
		)
		startWorker(zeebeClient, gr.TaskType, cfg.Workers[gr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[qi.TaskType].Enabled {
		handler := qi.NewHandler(
			&qi.Config{
				DefaultLimit: 50,
				MaxLimit:     cfg.Recommend.MaxListings,
				Timeout:      config.GetDuration(cfg.Workers[qi.TaskType].Timeout),
			},
			listingStore, searchStore, log,
		)
		startWorker(zeebeClient, qi.TaskType, cfg.Workers[qi.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[nc.TaskType].Enabled {
		handler, err := nc.NewHandler(
			&nc.Config{
				EmailEnabled:   cfg.Notifications.Email.Enabled,
				SMSEnabled:     cfg.Notifications.SMS.Enabled,
				FromEmail:      cfg.Notifications.Email.FromEmail,
				AWSRegion:      cfg.Notifications.AWS.Region,
				MinScoreForSMS: cfg.Notifications.SMS.MinScoreForSMS,
				MaxDigestItems: cfg.Recommend.TopN,
				Timeout:        config.GetDuration(cfg.Workers[nc.TaskType].Timeout),
			},
			log,
		)
		if err != nil {
			zapLog.Fatal("failed to create notify-candidate handler", zap.Error(err))
		}
		startWorker(zeebeClient, nc.TaskType, cfg.Workers[nc.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered successfully")

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
			status := "ready"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			} else if err := camundaClient.HealthCheck(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
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

	if err := camundaClient.Close(); err != nil {
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
