package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/finops-agent/pkg/assets"
	handlers "github.com/de-tools/finops-agent/pkg/handlers/report"
	finopsmiddleware "github.com/de-tools/finops-agent/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Analyst handlers.Analyst
	Advisor handlers.Source
	Hub     handlers.Source
	Spend   handlers.SpendSource
	Avatar  assets.Image
	Logger  zerolog.Logger
}

type Config struct {
	Addr            string
	Title           string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) http.Handler {
	deps := config.Dependencies
	h := handlers.NewHandler(handlers.Options{
		Analyst: deps.Analyst,
		Advisor: deps.Advisor,
		Hub:     deps.Hub,
		Spend:   deps.Spend,
		Avatar:  deps.Avatar,
		Title:   config.Title,
	})

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(finopsmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Get("/", h.Index)
	router.Post("/report", h.RunReport)
	router.Get("/assets/avatar", h.GetAvatar)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/report", h.CreateReport)
		r.Get("/advisor/findings", h.ListAdvisorFindings)
		r.Get("/hub/recommendations", h.ListHubRecommendations)
		r.Get("/spend", h.GetSpend)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// Start serves until the listener fails or the process receives SIGINT or
// SIGTERM, then drains in-flight requests.
func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-shutdown:
		w.logger.Info().Str("signal", sig.String()).Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
