// Package memberservice собирает сервис клиентов: зеркальное хранилище,
// потребителей событий встречного сервиса и HTTP-сервер клиентских чтений.
package memberservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-scheduler/internal/cache"
	"github.com/magabrotheeeer/gym-scheduler/internal/config"
	libjwt "github.com/magabrotheeeer/gym-scheduler/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-scheduler/internal/migrations"
	"github.com/magabrotheeeer/gym-scheduler/internal/rabbitmq"
	mirrorservice "github.com/magabrotheeeer/gym-scheduler/internal/services/mirror"
	"github.com/magabrotheeeer/gym-scheduler/internal/storage/repository"
)

// App инкапсулирует зависимости сервиса клиентов.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
	mirror     *mirrorservice.Service
}

// New создаёт приложение: подключает PostgreSQL, Redis и RabbitMQ,
// применяет миграции зеркала и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db, "mirror_sessions"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetMirrorQueues())
	if err != nil {
		return nil, err
	}

	jwtMaker := libjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	mirrorService := mirrorservice.New(db, cacheRedis, cfg.CacheTTL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, mirrorService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
		mirror:     mirrorService,
	}, nil
}

// Run запускает потребителей событий и HTTP-сервер, останавливая их
// по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	if err := rabbitmq.ConsumeMessages(ctx, a.rabbitCh,
		"member.mirror.sessions", a.mirror.HandleSessionEvent); err != nil {
		return err
	}
	if err := rabbitmq.ConsumeMessages(ctx, a.rabbitCh,
		"member.mirror.assignments", a.mirror.HandleAssignmentEvent); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbitConn.Close()
		_ = a.db.DB.Close()
		return err
	}
}
