package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/ainews/apiserver/config"
	"github.com/ainews/apiserver/internal/db"
	"github.com/ainews/apiserver/internal/handlers"
	"github.com/ainews/apiserver/internal/security"
	"github.com/ainews/apiserver/internal/services"
	"github.com/ainews/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	logger     *logrus.Logger
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	issuer, err := security.NewTokenIssuer(cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	articleRepo := store.NewArticleRepository(dbConn)
	sourceRepo := store.NewSourceRepository(dbConn)
	preferenceRepo := store.NewPreferenceRepository(dbConn)

	userService := services.NewUserService(userRepo)
	articleService := services.NewArticleService(articleRepo)
	sourceService := services.NewSourceService(sourceRepo)
	preferenceService := services.NewPreferenceService(preferenceRepo)

	guard := handlers.NewAccessGuard(issuer, userService)
	authHandler := handlers.NewAuthHandler(userService, issuer)
	articleHandler := handlers.NewArticleHandler(articleService)
	sourceHandler := handlers.NewSourceHandler(sourceService)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService)
	healthHandler := handlers.NewHealthHandler(cfg, dbConn)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	router.Get("/", handlers.Root(cfg))
	router.Route("/health", func(r chi.Router) {
		handlers.HealthRouter(r, healthHandler)
	})
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler, guard)
	})
	router.Route("/articles", func(r chi.Router) {
		handlers.ArticleRouter(r, articleHandler, guard)
	})
	router.Route("/sources", func(r chi.Router) {
		handlers.SourceRouter(r, sourceHandler, guard)
	})
	router.Route("/users/me/preferences", func(r chi.Router) {
		handlers.PreferenceRouter(r, preferenceHandler, guard)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.logger != nil {
		s.logger.Info("shutting down server")
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
