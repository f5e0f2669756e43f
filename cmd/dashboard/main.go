package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dennisdiepolder/hopwhistle/internal/api"
	"github.com/dennisdiepolder/hopwhistle/internal/auth"
	"github.com/dennisdiepolder/hopwhistle/internal/config"
	"github.com/dennisdiepolder/hopwhistle/internal/metrics"
	"github.com/dennisdiepolder/hopwhistle/internal/session"
	"github.com/dennisdiepolder/hopwhistle/internal/ticker"
	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/dennisdiepolder/hopwhistle/internal/websocket"
	"github.com/dennisdiepolder/hopwhistle/pkg/client"
	"github.com/dennisdiepolder/hopwhistle/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("api_url", cfg.APIURL).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Msg("starting hopwhistle dashboard gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	apiClient := client.NewClient(cfg.APIURL,
		client.WithTimeout(cfg.APITimeout),
		client.WithLogger(log.Logger),
		client.WithObserver(m),
	)

	store := session.NewStore()
	authService := auth.NewService(apiClient, store, log.Logger)

	hub := websocket.NewHub(log.Logger, m,
		websocket.WithSnapshot(store.User),
		websocket.WithAudience(authService.Token),
	)
	go hub.Run(ctx)

	store.Subscribe(func(user *types.User) {
		m.RecordSessionChange(user != nil)
	})
	store.Subscribe(hub.BroadcastSession)

	// Rehydrate from any existing backend session
	restoreCtx, restoreCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := authService.Restore(restoreCtx); err != nil {
		log.Warn().Err(err).Msg("could not restore session, backend unreachable")
	}
	restoreCancel()

	if cfg.SessionCheck > 0 {
		sessionTicker := ticker.NewTicker(store, apiClient, cfg.SessionCheck, log.Logger)
		go sessionTicker.Start(ctx)
	}

	r := newRouter(cfg, hub, authService, apiClient, m)

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the websocket hub and session ticker
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func newRouter(cfg *config.Config, hub *websocket.Hub, authService *auth.Service, backend api.Backend, m *metrics.Metrics) chi.Router {
	sessionHandler := api.NewSessionHandler(authService, log.Logger)
	dashboardHandler := api.NewDashboardHandler(backend, log.Logger)
	wsHandler := websocket.NewHandler(hub, auth.SessionToken, cfg, log.Logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.With(auth.RequireSession(authService)).Get("/ws", wsHandler.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session/login", sessionHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(authService))
			r.Post("/session/logout", sessionHandler.HandleLogout)
			r.Get("/session", sessionHandler.HandleCurrent)
			dashboardHandler.Routes(r)
		})
	})

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"hopwhistle-dashboard"}`)
}
