// Package repaircrm собирает HTTP-приложение: хранилище, кеш, брокер,
// сервисы и маршруты.
package repaircrm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/repair-crm/internal/cache"
	"github.com/magabrotheeeer/repair-crm/internal/config"
	jwtmaker "github.com/magabrotheeeer/repair-crm/internal/lib/jwt"
	"github.com/magabrotheeeer/repair-crm/internal/migrations"
	"github.com/magabrotheeeer/repair-crm/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/repair-crm/internal/services/auth"
	clientservice "github.com/magabrotheeeer/repair-crm/internal/services/client"
	paymentservice "github.com/magabrotheeeer/repair-crm/internal/services/payment"
	reportservice "github.com/magabrotheeeer/repair-crm/internal/services/report"
	subservice "github.com/magabrotheeeer/repair-crm/internal/services/subscription"
	ticketservice "github.com/magabrotheeeer/repair-crm/internal/services/ticket"
	"github.com/magabrotheeeer/repair-crm/internal/storage/repository"
)

// App представляет HTTP-приложение CRM.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает зависимости, применяет миграции
// и настраивает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	notifier := rabbitmq.NewNotifier(ch)

	maker := jwtmaker.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, maker, logger)
	clientService := clientservice.NewClientService(db, cacheRedis, logger)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, notifier, cfg.Currency, logger)
	paymentService := paymentservice.NewPaymentService(db, logger)
	ticketService := ticketservice.NewTicketService(db, logger)
	reportService := reportservice.NewReportService(logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, maker, db,
		authService, clientService, subscriptionService,
		paymentService, ticketService, reportService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
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
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
