package memberservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	healthhandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/health"
	currenttrainerhandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/member/currenttrainer"
	pasthandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/member/past"
	upcominghandler "github.com/magabrotheeeer/gym-scheduler/internal/http/handlers/member/upcoming"
	"github.com/magabrotheeeer/gym-scheduler/internal/http/middlewarectx"
	libjwt "github.com/magabrotheeeer/gym-scheduler/internal/lib/jwt"
	mirrorservice "github.com/magabrotheeeer/gym-scheduler/internal/services/mirror"
)

// RegisterRoutes настраивает маршруты сервиса клиентов: служебные ручки
// доступны без токена, клиентские чтения требуют JWT.
func RegisterRoutes(r *chi.Mux, log *slog.Logger,
	maker libjwt.Maker,
	mirrorService *mirrorservice.Service,
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

	r.Route("/api/v1/members/{id}", func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(maker, log))

		r.Get("/trainer", currenttrainerhandler.New(log, mirrorService).ServeHTTP)
		r.Get("/sessions/upcoming", upcominghandler.New(log, mirrorService).ServeHTTP)
		r.Get("/sessions/past", pasthandler.New(log, mirrorService).ServeHTTP)
	})
}
