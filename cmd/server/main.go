// Command server runs the rating service: the HTTP API, the validation cache
// sweeper, and the event publisher. Business logic lives in internal packages;
// this file only wires dependencies and owns the process lifecycle.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"ratingsvc/internal/events"
	jwttoken "ratingsvc/internal/jwt_token"
	"ratingsvc/internal/platform/config"
	"ratingsvc/internal/platform/httpserver"
	"ratingsvc/internal/platform/logger"
	"ratingsvc/internal/platform/metrics"
	"ratingsvc/internal/platform/middleware"
	"ratingsvc/internal/platform/postgres"
	"ratingsvc/internal/rating/handler"
	"ratingsvc/internal/rating/service"
	"ratingsvc/internal/rating/store"
	"ratingsvc/internal/validation"
	"ratingsvc/internal/validation/cache"
)

func main() {
	log := logger.New("rating-service")

	if err := run(log); err != nil {
		log.Error("rating service exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	ratingStore := store.NewPostgres(pool)
	if err := ratingStore.EnsureSchema(ctx); err != nil {
		return err
	}

	kafkaClient, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.KafkaBrokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return err
	}
	defer kafkaClient.Close()

	if err := events.EnsureTopics(ctx, kadm.NewClient(kafkaClient), cfg.RatingsTopic, cfg.DeadLetterTopic); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	validationCache := cache.New(cfg.CacheTTL, cfg.CacheSweepInterval)

	validatorCfg := func(baseURL string) validation.Config {
		return validation.Config{
			BaseURL: baseURL,
			Timeout: cfg.ValidatorTimeout,
			Retries: cfg.ValidatorRetries,
			Backoff: cfg.ValidatorBackoff,
		}
	}
	userValidator, err := validation.NewUserValidator(validatorCfg(cfg.UserServiceURL), validationCache, log, m)
	if err != nil {
		return err
	}
	courseValidator, err := validation.NewCourseValidator(validatorCfg(cfg.CourseServiceURL), validationCache, log, m)
	if err != nil {
		return err
	}

	publisher := events.NewPublisher(kafkaClient, cfg.RatingsTopic, cfg.DeadLetterTopic, log, m)
	ratingService := service.New(ratingStore, userValidator, courseValidator, publisher, log, m)
	tokenService := jwttoken.NewService(cfg.JWTSigningKey)
	ratingHandler := handler.New(ratingService, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokenService, log))
		ratingHandler.Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return validationCache.Run(groupCtx)
	})
	group.Go(func() error {
		return publisher.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("rating service listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("rating service stopped")
	return nil
}
