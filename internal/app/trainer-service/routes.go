package trainerservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	confirmhandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/assignment/confirm"
	unassignhandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/assignment/remove"
	requesthandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/assignment/request"
	healthhandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/health"
	addhandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/session/add"
	listpasthandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/session/listpast"
	listupcominghandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/session/listupcoming"
	removehandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/session/remove"
	updatehandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/session/update"
	"github.com/magabrotheeeer/gym-scheduler/internal/http/middlewarectx"
	libjwt "github.com/magabrotheeeer/gym-scheduler/internal/lib/jwt"
	assignmentservice "github.com/magabrotheeeer/gym-scheduler/internal/services/assignment"
	sessionservice "github.com/magabrotheeeer/gym-scheduler/internal/services/session"
)

// RegisterRoutes настраивает маршруты сервиса тренера: служебные ручки
// доступны без токена, операции закреплений и тренировок требуют JWT.
func RegisterRoutes(r *chi.Mux, log *slog.Logger,
	maker libjwt.Maker,
	assignmentService *assignmentservice.Service,
	sessionService *sessionservice.Service,
) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)
	r.Use(middlewarectx.RateLimitMiddleware(log))
	r.Use(middlewarectx.MetricsMiddleware())

	r.Get("/health", healthhandler.New(log).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(maker, log))

		r.Post("/assignments/request", requesthandler.New(log, assignmentService).ServeHTTP)
		r.Post("/assignments/confirm", confirmhandler.New(log, assignmentService).ServeHTTP)
		r.Delete("/assignments/{id}", unassignhandler.New(log, assignmentService).ServeHTTP)

		r.Post("/sessions", addhandler.New(log, sessionService).ServeHTTP)
		r.Put("/sessions/{id}", updatehandler.New(log, sessionService).ServeHTTP)
		r.Delete("/sessions/{id}", removehandler.New(log, sessionService).ServeHTTP)
		r.Get("/sessions/upcoming", listupcominghandler.New(log, sessionService).ServeHTTP)
		r.Get("/sessions/past", listpasthandler.New(log, sessionService).ServeHTTP)
	})
}
