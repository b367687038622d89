package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/HarshG200/neuron-edtech/internal/models"
	"github.com/HarshG200/neuron-edtech/internal/paymentprovider"
	"github.com/HarshG200/neuron-edtech/internal/storage/repository"
)

// HandleWebhook processes a gateway callback. Only payment.captured carries
// business meaning; every other event is acknowledged and dropped. The
// signature covers the raw body, so the handler passes it through unparsed.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	const op = "services.payment.HandleWebhook"

	if err := paymentprovider.VerifyWebhookSignature(body, signature, s.webhookSecret); err != nil {
		return err
	}

	var event paymentprovider.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if event.Event != "payment.captured" {
		s.log.Debug("ignoring webhook event", slog.String("event", event.Event))
		return nil
	}

	entity := event.Payload.Payment.Entity
	if _, err := s.repo.UpdatePaymentStatus(ctx, entity.OrderID, models.OrderStatusCaptured, entity.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// The checkout verify call usually lands first. The webhook is the
	// fallback for users who close the tab before the widget redirects.
	if _, err := s.repo.FindSubscriptionByOrder(ctx, entity.OrderID); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	payment, err := s.repo.ReadPayment(ctx, entity.OrderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.activate(ctx, payment); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
