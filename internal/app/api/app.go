// Package api assembles the portal API process: storage, migrations, cache,
// the broker connection, the payment gateway client and the HTTP server.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/HarshG200/neuron-edtech/internal/cache"
	"github.com/HarshG200/neuron-edtech/internal/config"
	"github.com/HarshG200/neuron-edtech/internal/lib/jwt"
	"github.com/HarshG200/neuron-edtech/internal/lib/rabbitmq"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/migrations"
	"github.com/HarshG200/neuron-edtech/internal/models"
	"github.com/HarshG200/neuron-edtech/internal/paymentprovider"
	authservice "github.com/HarshG200/neuron-edtech/internal/services/auth"
	catalogservice "github.com/HarshG200/neuron-edtech/internal/services/catalog"
	materialservice "github.com/HarshG200/neuron-edtech/internal/services/material"
	paymentservice "github.com/HarshG200/neuron-edtech/internal/services/payment"
	statsservice "github.com/HarshG200/neuron-edtech/internal/services/stats"
	subscriptionservice "github.com/HarshG200/neuron-edtech/internal/services/subscription"
	updateservice "github.com/HarshG200/neuron-edtech/internal/services/update"
	"github.com/HarshG200/neuron-edtech/internal/storage/repository"
)

// App is the assembled API process.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// purchasePublisher adapts the AMQP channel to the payment service's
// Publisher interface.
type purchasePublisher struct {
	ch *amqp.Channel
}

func (p *purchasePublisher) PublishPurchase(event models.PurchaseEvent) error {
	return rabbitmq.PublishMessage(p.ch, rabbitmq.Exchange, rabbitmq.RoutingKeyPurchase, event)
}

// New builds the App: opens storage, applies migrations, connects the cache
// and the broker, and wires every service behind the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, []rabbitmq.QueueConfig{
		{QueueName: rabbitmq.QueuePurchase, RoutingKey: rabbitmq.RoutingKeyPurchase},
	})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	provider := paymentprovider.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	authService := authservice.NewAuthService(db, jwtMaker)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, logger)
	materialService := materialservice.NewMaterialService(db, db, logger)
	paymentService := paymentservice.NewPaymentService(db, provider, &purchasePublisher{ch: ch},
		cfg.Razorpay.WebhookSecret, logger)
	updateService := updateservice.NewUpdateService(db, cacheRedis, logger)
	statsService := statsservice.NewStatsService(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, db, &Services{
		Auth:         authService,
		Catalog:      catalogService,
		Subscription: subscriptionService,
		Material:     materialService,
		Payment:      paymentService,
		Update:       updateService,
		Stats:        statsService,
	})

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

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
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
			a.logger.Error("failed to close broker channel", sl.Err(closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close broker connection", sl.Err(closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
