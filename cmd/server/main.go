package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"onboard/internal/audit"
	checkhandler "onboard/internal/check/handler"
	checkmetrics "onboard/internal/check/metrics"
	"onboard/internal/check/ports"
	checkservice "onboard/internal/check/service"
	"onboard/internal/dispatch"
	jwttoken "onboard/internal/jwt_token"
	"onboard/internal/platform/config"
	"onboard/internal/platform/httpserver"
	"onboard/internal/platform/logger"
	"onboard/internal/platform/metrics"
	platformredis "onboard/internal/platform/redis"
	submissionstore "onboard/internal/submission/store"
	"onboard/pkg/platform/circuit"
	authmw "onboard/pkg/platform/middleware/auth"
	"onboard/pkg/platform/middleware/metadata"
	requestmw "onboard/pkg/platform/middleware/request"
	"onboard/pkg/platform/middleware/requesttime"
)

const (
	replayInterval = 30 * time.Second
	replayBatch    = 100
	auditBuffer    = 256
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var guard ports.SubmissionGuard = submissionstore.NewInMemoryStore()
	if redisClient != nil {
		guard = submissionstore.NewRedisStore(redisClient)
	}

	dispatchers, err := buildDispatcher(cfg, log, redisClient)
	if err != nil {
		return err
	}
	defer dispatchers.close()

	auditPublisher := audit.NewPublisher(audit.NewInMemoryStore(),
		audit.WithAsyncBuffer(auditBuffer),
		audit.WithLogger(log),
	)
	defer auditPublisher.Close()

	reg := prometheus.DefaultRegisterer
	httpMetrics := metrics.New(reg)
	checkMetrics := checkmetrics.New(reg)

	svc := checkservice.New(dispatchers.dispatcher, guard,
		checkservice.WithLogger(log),
		checkservice.WithAuditPublisher(auditPublisher),
		checkservice.WithMetrics(checkMetrics),
		checkservice.WithSubmissionTTL(cfg.Submission.TTL),
	)

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)

	r := chi.NewRouter()
	r.Use(requestmw.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(httpMetrics.Middleware)

	r.Get("/healthz", health(redisClient))
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), log))
		checkhandler.New(svc, log).Register(r)
	})

	if dispatchers.spool != nil {
		go replaySpool(ctx, dispatchers.spool, dispatchers.primary, log)
	}

	srv := httpserver.New(cfg.Server, r)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting onboard", "addr", cfg.Server.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

type dispatchSet struct {
	dispatcher ports.Dispatcher
	primary    ports.Dispatcher
	spool      *dispatch.RedisSpool
	close      func()
}

// buildDispatcher picks Kafka when brokers are configured, spooling to Redis
// while the broker circuit is open. Without brokers payloads are only logged.
func buildDispatcher(cfg config.Config, log *slog.Logger, redisClient *platformredis.Client) (*dispatchSet, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn("no kafka brokers configured, verification requests will only be logged")
		d := dispatch.NewLogDispatcher(log)
		return &dispatchSet{dispatcher: d, primary: d, close: func() {}}, nil
	}

	client, err := dispatch.NewKafkaClient(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, err
	}
	kafka := dispatch.NewKafkaDispatcher(client, cfg.Kafka.Topic, log)
	out := &dispatchSet{primary: kafka, close: client.Close}

	var fallback ports.Dispatcher
	if redisClient != nil {
		out.spool = dispatch.NewRedisSpool(redisClient, cfg.Kafka.SpoolKey, log)
		fallback = out.spool
	}
	breaker := circuit.New("kafka-dispatch",
		circuit.WithFailureThreshold(cfg.Kafka.FailureThreshold),
		circuit.WithCooldown(cfg.Kafka.Cooldown),
	)
	out.dispatcher = dispatch.NewFallbackDispatcher(kafka, fallback, breaker, log)
	return out, nil
}

// replaySpool periodically drains spooled payloads straight to the broker.
// A failed replay leaves the payload at the head of the spool.
func replaySpool(ctx context.Context, spool *dispatch.RedisSpool, to ports.Dispatcher, log *slog.Logger) {
	ticker := time.NewTicker(replayInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := spool.Replay(ctx, to, replayBatch)
			if err != nil {
				log.WarnContext(ctx, "spool replay interrupted", "sent", sent, "error", err)
				continue
			}
			if sent > 0 {
				log.InfoContext(ctx, "spooled verification requests replayed", "sent", sent)
			}
		}
	}
}

func health(redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
