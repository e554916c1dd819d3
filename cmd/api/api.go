package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"studyspots/internal/auth"
	"studyspots/internal/domain/storage"
	"studyspots/internal/metrics"
	"studyspots/internal/ratelimiter"
	"studyspots/internal/service"
)

type application struct {
	config        config
	service       *service.Service
	store         *storage.Container
	logger        *zap.SugaredLogger
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if app.config.RateLimiter.Enabled {
		r.Use(app.RateLimiterMiddleware)
	}

	// signals through ctx.Done() that the request has timed out
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		r.With(app.BasicAuthMiddleware()).Handle("/metrics", promhttp.Handler())

		r.Route("/venues", func(r chi.Router) {
			r.Post("/", app.createVenueHandler)
			r.Get("/", app.listVenuesHandler)
			r.Get("/search", app.searchVenuesByTextHandler)
			r.Get("/nearby", app.findNearbyVenuesHandler)
			r.Get("/amenities", app.findVenuesByAmenitiesHandler)
			r.Get("/rating", app.findVenuesByMinRatingHandler)
			r.Get("/discover", app.discoverVenuesHandler)

			r.Route("/{venueID}", func(r chi.Router) {
				r.Get("/", app.getVenueHandler)
				r.Patch("/", app.updateVenueHandler)
				r.Delete("/", app.deleteVenueHandler)
				r.Get("/photos", app.listVenuePhotosHandler)
				r.Get("/reviews", app.listVenueReviewsHandler)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", app.createReviewHandler)

			r.Route("/{reviewID}", func(r chi.Router) {
				r.Get("/", app.getReviewHandler)
				r.Patch("/", app.updateReviewHandler)
				r.Delete("/", app.deleteReviewHandler)
				r.Post("/photos", app.addReviewPhotoHandler)
				r.Post("/photos/upload", app.uploadReviewPhotoHandler)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", app.createUserHandler)
			r.Get("/", app.listUsersHandler)
			r.Get("/search", app.searchUsersHandler)
			r.With(app.AuthTokenMiddleware).Get("/me", app.getCurrentUserHandler)

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", app.getUserHandler)
				r.Patch("/", app.updateUserHandler)
				r.Delete("/", app.deleteUserHandler)
				r.Put("/profile-picture", app.uploadProfilePictureHandler)
				r.Delete("/profile-picture", app.clearProfilePictureHandler)
				r.Get("/bookmarks", app.listUserBookmarksHandler)
			})
		})

		r.Route("/bookmarks", func(r chi.Router) {
			r.Post("/", app.createBookmarkHandler)
			r.Get("/exists", app.bookmarkExistsHandler)
			r.Delete("/", app.deleteBookmarkByUserAndVenueHandler)
			r.Get("/{bookmarkID}", app.getBookmarkHandler)
			r.Delete("/{bookmarkID}", app.deleteBookmarkHandler)
		})

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.BasicAuthMiddleware())
			r.Post("/ratings/repair", app.repairAllRatingsHandler)
			r.Post("/ratings/repair/{venueID}", app.repairVenueRatingHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.Addr, "env", app.config.Env)

	return nil
}
