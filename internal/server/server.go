// Package server wires the HTTP router, middleware, and all route
// definitions. It is the composition root: main.go hands it a Config and a
// logger, and everything else — database, services, handlers — is assembled
// here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/sakif/kickstart-blog/internal/auth"
	"github.com/sakif/kickstart-blog/internal/config"
	"github.com/sakif/kickstart-blog/internal/handler"
	"github.com/sakif/kickstart-blog/internal/mail"
	"github.com/sakif/kickstart-blog/internal/media"
	"github.com/sakif/kickstart-blog/internal/middleware"
	sqliteRepo "github.com/sakif/kickstart-blog/internal/repository/sqlite"
	"github.com/sakif/kickstart-blog/internal/service"
)

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, builds the full dependency chain, and registers
// every route. The mailer and uploader are injected by main so the server
// doesn't care whether they are real or the development fallbacks.
func New(cfg *config.Config, logger *slog.Logger, mailer mail.Sender, uploader media.Uploader) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(mailer, uploader); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and maps every route to its handler.
//
// Middleware order: RequestID and RealIP first so the logger sees them,
// then logging, panic recovery, and CORS. The auth endpoints additionally
// get a per-IP rate limit since OTP request/verify and login are the
// endpoints worth brute-forcing.
func (s *Server) setupRoutes(mailer mail.Sender, uploader media.Uploader) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordServiceWithCost(s.cfg.Auth.BcryptCost)

	authService := service.NewAuthService(s.db, tokens, passwords, mailer, s.logger)
	postService := service.NewPostService(s.db, s.db, s.logger)
	engagementService := service.NewEngagementService(s.db, s.logger)
	profileService := service.NewProfileService(s.db, uploader, s.logger)
	contactService := service.NewContactService(mailer, s.cfg.Contact.Recipient, s.logger)

	authHandler := handler.NewAuthHandler(authService, uploader, s.logger)
	postHandler := handler.NewPostHandler(postService, uploader, s.logger)
	engagementHandler := handler.NewEngagementHandler(engagementService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	uploadHandler := handler.NewUploadHandler(uploader, s.logger)
	contactHandler := handler.NewContactHandler(contactService, s.logger)

	requireAuth := auth.RequireAuth(tokens)
	optionalAuth := auth.OptionalAuth(tokens)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	s.router.Route("/api", func(r chi.Router) {
		// Auth endpoints: rate-limited, no token needed.
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(s.cfg.Server.AuthRateLimit, time.Minute))
			r.Post("/auth/request-otp", authHandler.HandleRequestOTP)
			r.Post("/auth/verify-otp", authHandler.HandleVerifyOTP)
			r.Post("/auth/login", authHandler.HandleLogin)
		})

		// Public reads. Optional auth so feeds can mark posts the viewer
		// already liked.
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/blogs/{id}", postHandler.HandleGetPublished)
			r.Get("/posts/category/{category}", postHandler.HandleCategory)
			r.Get("/latest", postHandler.HandleLatest)
			r.Get("/authordetails/{id}", postHandler.HandleAuthorDetails)
		})
		r.Get("/sidebar/trending", postHandler.HandleTrending)
		r.Get("/sidebar/authors", postHandler.HandleAuthors)
		r.Get("/posts/{id}/comments", engagementHandler.HandleListComments)
		r.Post("/contact", contactHandler.HandleSubmit)

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/blogs", postHandler.HandleCreate)
			r.Put("/blogs/publish/{id}", postHandler.HandlePublish)
			r.Post("/posts/{id}/like", engagementHandler.HandleToggleLike)
			r.Get("/posts/{id}/status", engagementHandler.HandleLikeStatus)
			r.Post("/posts/{id}/comment", engagementHandler.HandleAddComment)
			r.Get("/profile/myblogs", postHandler.HandleMyBlogs)
			r.Put("/profile/picture/{id}", profileHandler.HandleUpdatePicture)
			r.Delete("/profile/picture/{id}", profileHandler.HandleRemovePicture)
			r.Post("/upload", uploadHandler.HandleUpload)
		})
	})

	return nil
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests within
// the shutdown timeout, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Server.Port),
			slog.String("database", s.cfg.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
