package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"location_service/internal/auth"
	"location_service/internal/config"
	"location_service/internal/geo"
	"location_service/internal/http_server/handlers/city"
	"location_service/internal/http_server/handlers/country"
	"location_service/internal/http_server/handlers/login"
	"location_service/internal/http_server/handlers/signout"
	"location_service/internal/http_server/handlers/state"
	"location_service/internal/http_server/handlers/user"
	"location_service/internal/middleware/authn"
	rateLimit "location_service/internal/middleware/ratelimit"
	"location_service/internal/rabbitmq"
	"location_service/internal/storage/postgres"
	redisrepo "location_service/internal/storage/redis"
	"location_service/internal/users"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting location service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	cache, err := redisrepo.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL)
	if err != nil {
		log.Error("failed to connect redis", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer cache.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer msgBroker.Close()

	authService := auth.New(log, storage, storage, cfg.Tokens.Secret, cfg.Tokens.AccessTokenTTL)
	userService := users.New(log, storage, msgBroker)
	geoService := geo.New(log, storage, cache)

	router := setupRouter(log, authService, userService, geoService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("server stopped gracefully")
	}
}

func setupRouter(
	log *slog.Logger,
	authService *auth.Auth,
	userService *users.Service,
	geoService *geo.Service,
) *chi.Mux {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Route("/user", func(r chi.Router) {
		r.With(rateLimit.Login()).Post("/login", login.New(log, validate, authService))
		r.With(rateLimit.SignOut()).Delete("/signout/{userid}", signout.New(log, authService))

		r.With(rateLimit.Signup()).Post("/", user.NewCreate(log, validate, userService))
		r.Get("/", user.NewList(log, userService))
		r.Get("/{id}", user.NewGet(log, userService))
		r.Put("/{id}", user.NewUpdate(log, validate, userService))
		r.Delete("/{id}", user.NewDelete(log, userService))
	})

	// Geo reads are public; mutations require an active session.
	requireSession := authn.New(log, authService)

	r.Route("/country", func(r chi.Router) {
		r.Get("/", country.NewList(log, geoService))
		r.Get("/{id}", country.NewGet(log, geoService))

		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Post("/", country.NewCreate(log, validate, geoService))
			r.Put("/{id}", country.NewUpdate(log, validate, geoService))
			r.Delete("/{id}", country.NewDelete(log, geoService))
		})
	})

	r.Route("/state", func(r chi.Router) {
		r.Get("/", state.NewList(log, geoService))
		r.Get("/{id}", state.NewGet(log, geoService))

		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Post("/", state.NewCreate(log, validate, geoService))
			r.Put("/{id}", state.NewUpdate(log, validate, geoService))
			r.Delete("/{id}", state.NewDelete(log, geoService))
		})
	})

	r.Route("/city", func(r chi.Router) {
		r.Get("/", city.NewList(log, geoService))
		r.Get("/{id}", city.NewGet(log, geoService))

		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Post("/", city.NewCreate(log, validate, geoService))
			r.Put("/{id}", city.NewUpdate(log, validate, geoService))
			r.Delete("/{id}", city.NewDelete(log, geoService))
		})
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
