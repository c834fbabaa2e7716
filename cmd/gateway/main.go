// The gateway is the edge of the deployment: it classifies every inbound
// navigation, verifies session credentials against the authority, proxies the
// authority's API with a login lockout guard in front, and forwards allowed
// page traffic to the web upstream.
package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"taskgate/internal/authority"
	"taskgate/internal/gateway/device"
	"taskgate/internal/gateway/metrics"
	"taskgate/internal/gateway/middleware"
	"taskgate/internal/gateway/router"
	"taskgate/internal/gateway/verify"
	"taskgate/internal/lockout"
	"taskgate/internal/platform/audit"
	"taskgate/internal/platform/audit/publisher"
	auditpg "taskgate/internal/platform/audit/store/postgres"
	"taskgate/internal/platform/audit/worker"
	"taskgate/internal/platform/config"
	"taskgate/internal/platform/httpserver"
	"taskgate/internal/platform/logger"
	redisplatform "taskgate/internal/platform/redis"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	authorityURL, err := url.Parse(cfg.Authority.BaseURL())
	if err != nil {
		log.Error("invalid authority URL", "error", err)
		os.Exit(1)
	}
	webURL, err := url.Parse(cfg.WebUpstreamURL)
	if err != nil {
		log.Error("invalid web upstream URL", "error", err)
		os.Exit(1)
	}

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	var lockoutStore lockout.Store
	var health router.HealthChecker
	if redisClient != nil {
		lockoutStore = lockout.NewRedisStore(redisClient)
		health = redisClient
		defer redisClient.Close()
		log.Info("lockout counters shared via redis")
	} else {
		lockoutStore = lockout.NewMemoryStore()
		log.Info("lockout counters kept in process memory")
	}

	var auditPublisher audit.Publisher = publisher.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := publisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic,
			publisher.WithLogger(log))
		if err != nil {
			log.Error("audit publisher setup failed", "error", err)
			os.Exit(1)
		}
		auditPublisher = kafkaPublisher
		defer kafkaPublisher.Close()
	}

	var auditWorker *worker.Worker
	if len(cfg.Kafka.Brokers) > 0 && cfg.DatabaseURL != "" {
		store, err := auditpg.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("audit store setup failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		auditWorker, err = worker.New(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, "taskgate-audit", store, log)
		if err != nil {
			log.Error("audit worker setup failed", "error", err)
			os.Exit(1)
		}
	}

	authorityClient := authority.New(cfg.Authority.BaseURL(), authority.WithLogger(log))
	verifier := verify.New(authorityClient,
		verify.WithTimeout(cfg.Authority.VerifyTimeout),
		verify.WithLogger(log))

	gatewayMetrics := metrics.New()
	gate := middleware.New(verifier, log,
		middleware.WithMetrics(gatewayMetrics),
		middleware.WithAuditPublisher(auditPublisher))

	lockoutService := lockout.NewService(lockoutStore, cfg.Lockout, log,
		lockout.WithAuditPublisher(auditPublisher))
	guard := lockout.NewGuard(lockoutService, device.NewService(true), log)

	handler := router.New(router.Deps{
		Gate:         gate,
		Guard:        guard,
		AuthorityURL: authorityURL,
		WebURL:       webURL,
		Health:       health,
		Logger:       log,
	})
	srv := httpserver.New(cfg.Addr, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("gateway listening", "addr", cfg.Addr, "authority", authorityURL.Host, "web", webURL.Host)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if auditWorker != nil {
		group.Go(func() error {
			log.Info("audit worker running", "topic", cfg.Kafka.AuditTopic)
			err := auditWorker.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if auditWorker != nil {
			auditWorker.Close()
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("gateway exited", "error", err)
		os.Exit(1)
	}
	log.Info("gateway stopped")
}
