package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"rental/config"
	_ "rental/docs" // swagger docs
	"rental/infras/kafka"
	"rental/infras/otel"
	"rental/internal/domains/reservation/scheduler"
	"rental/shared/constant"
	"rental/shared/worker"
	"rental/transport/http/middleware"
	"rental/transport/http/response"
	"rental/transport/http/router"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const readHeaderTimeout = 10 * time.Second

type HTTP struct {
	Config     *config.Config
	Router     router.Router
	App        middleware.AppMiddleware
	AuthRole   middleware.AuthRole
	Pool       worker.Pool
	Scheduler  scheduler.Scheduler
	Kafka      kafka.Client
	Otel       otel.Otel
	state      atomic.Int32
	mux        chi.Router
	server     *http.Server
	setupOnce  sync.Once
	background context.CancelFunc
}

func New(
	cfg *config.Config,
	r router.Router,
	app middleware.AppMiddleware,
	authRole middleware.AuthRole,
	pool worker.Pool,
	sched scheduler.Scheduler,
	kafkaClient kafka.Client,
	otel otel.Otel,
) *HTTP {
	return &HTTP{
		Config:    cfg,
		Router:    r,
		App:       app,
		AuthRole:  authRole,
		Pool:      pool,
		Scheduler: sched,
		Kafka:     kafkaClient,
		Otel:      otel,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// Serve starts the background workers and blocks serving HTTP until SIGTERM completes the shutdown.
func (h *HTTP) Serve() {
	h.setup()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	h.setupGracefulShutdown()

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// ServeHTTP serves a single request, for serverless entrypoints.
func (h *HTTP) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	h.setup()

	h.mux.ServeHTTP(writer, request)
}

func (h *HTTP) setup() {
	h.setupOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		h.background = cancel

		h.Pool.Start(ctx)
		h.Scheduler.Start(ctx)

		h.setupRoutes()
		h.state.Store(int32(ServerStateReady))
	})
}

func (h *HTTP) setupRoutes() {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.RequestID)
	mux.Use(chiMiddleware.Recoverer)

	if h.Config.App.CORS.Enable {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	mux.Use(h.App.Tracing)
	mux.Use(h.App.Origin)

	mux.Get("/health", h.health)

	if h.Config.Server.Env != constant.ServerEnvProduction {
		mux.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	mux.Group(func(api chi.Router) {
		api.Use(h.App.RateLimit())
		api.Use(h.AuthRole.APIKey)
		api.Use(h.AuthRole.Auth)
		api.Use(h.AuthRole.RBAC)

		h.Router.SetupRoutes(api)
	})

	h.mux = mux
}

func (h *HTTP) health(writer http.ResponseWriter, _ *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(writer)

		return
	}

	response.WithMessage(writer, http.StatusOK, "OK")
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

// respondToSigterm fails health checks for the grace period so load balancers drain the instance,
// then gives in-flight requests and queued side effects the cleanup period to finish.
func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	} else {
		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.state.Store(int32(ServerStateInGracePeriod))

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)
	}

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	h.Shutdown(ctx)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

// Shutdown stops accepting requests, then drains the scheduler, the worker pool and the
// Kafka writers in that order.
func (h *HTTP) Shutdown(ctx context.Context) {
	if h.server != nil {
		if err := h.server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down HTTP server")
		}
	}

	h.Scheduler.Stop()

	if err := h.Pool.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to drain worker pool")
	}

	if h.background != nil {
		h.background()
	}

	if err := h.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client")
	}

	if err := h.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}
