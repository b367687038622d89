// Package notifier assembles the purchase-confirmation worker: it consumes
// purchase events from the broker and sends the emails.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/HarshG200/neuron-edtech/internal/config"
	"github.com/HarshG200/neuron-edtech/internal/lib/rabbitmq"
	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/lib/smtp"
	senderservice "github.com/HarshG200/neuron-edtech/internal/services/sender"
)

type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	sender *senderservice.SenderService
	logger *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
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

	transport := smtp.NewTransport(cfg, logger)
	sender := senderservice.NewSenderService(transport, logger)

	return &App{
		conn:   conn,
		ch:     ch,
		sender: sender,
		logger: logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueuePurchase, a.sender.SendPurchaseConfirmation); err != nil {
		a.logger.Error("failed to start purchase consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
