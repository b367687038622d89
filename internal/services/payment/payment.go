// Package payment drives the gateway order flow: order creation, checkout
// verification and webhook capture. Verification is the only path that mints
// subscriptions.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/models"
	"github.com/HarshG200/neuron-edtech/internal/paymentprovider"
	"github.com/HarshG200/neuron-edtech/internal/storage/repository"
)

// ErrSubjectUnavailable is returned when an order targets a subject that no
// longer exists in the catalog.
var ErrSubjectUnavailable = errors.New("subject is not available")

// A subscription term is counted in 30-day months from the moment of
// verification, matching what the checkout page promises.
const daysPerMonth = 30

// PaymentRepository defines the storage methods the payment flow touches.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p models.Payment) error
	ReadPayment(ctx context.Context, orderID string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, orderID, status, paymentID string) (int, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	FindSubscriptionByOrder(ctx context.Context, orderID string) (*models.Subscription, error)
	ReadSubject(ctx context.Context, id string) (*models.Subject, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Provider is the gateway client.
type Provider interface {
	CreateOrder(reqParams paymentprovider.CreateOrderRequest) (*paymentprovider.Order, error)
	VerifyCheckoutSignature(orderID, paymentID, signature string) error
}

// Publisher emits purchase events for the notifier.
type Publisher interface {
	PublishPurchase(event models.PurchaseEvent) error
}

// PaymentService implements the order and verification flow.
type PaymentService struct {
	repo          PaymentRepository
	provider      Provider
	publisher     Publisher
	webhookSecret string
	now           func() time.Time
	log           *slog.Logger
}

// NewPaymentService creates a PaymentService using the wall clock.
func NewPaymentService(repo PaymentRepository, provider Provider, publisher Publisher, webhookSecret string, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:          repo,
		provider:      provider,
		publisher:     publisher,
		webhookSecret: webhookSecret,
		now:           time.Now,
		log:           log,
	}
}

// CreateOrder opens a gateway order for the subject's current price and
// records it as "created". The amount sent to the gateway is in paise.
func (s *PaymentService) CreateOrder(ctx context.Context, email, subjectID string) (*paymentprovider.Order, error) {
	const op = "services.payment.CreateOrder"

	subject, err := s.repo.ReadSubject(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubjectUnavailable
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.provider.CreateOrder(paymentprovider.CreateOrderRequest{
		Amount:         subject.Price * 100,
		Currency:       "INR",
		PaymentCapture: 1,
		Notes: map[string]string{
			"subject_id": subject.ID,
			"email":      email,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment := models.Payment{
		OrderID:   order.ID,
		UserEmail: email,
		SubjectID: subject.ID,
		Amount:    subject.Price,
		Currency:  "INR",
		Status:    models.OrderStatusCreated,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment order created",
		slog.String("order_id", order.ID),
		slog.String("subject_id", subject.ID))
	return order, nil
}

// Verify checks the checkout signature and, on success, marks the payment
// verified and activates the subscription. Calling it twice for the same
// order is safe: the second call finds the existing subscription and returns
// it unchanged.
func (s *PaymentService) Verify(ctx context.Context, req models.DummyVerify) (*models.Subscription, error) {
	const op = "services.payment.Verify"

	if err := s.provider.VerifyCheckoutSignature(req.OrderID, req.PaymentID, req.Signature); err != nil {
		return nil, err
	}

	payment, err := s.repo.ReadPayment(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.repo.UpdatePaymentStatus(ctx, req.OrderID, models.OrderStatusVerified, req.PaymentID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if existing, err := s.repo.FindSubscriptionByOrder(ctx, req.OrderID); err == nil {
		s.log.Info("verify replay, subscription already exists",
			slog.String("order_id", req.OrderID))
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := s.activate(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// activate mints a subscription starting now and notifies the purchase queue.
// The price is the amount the order was actually paid for, not the subject's
// current price: a catalog price edit between order creation and checkout must
// not rewrite what the user was charged.
func (s *PaymentService) activate(ctx context.Context, payment *models.Payment) (*models.Subscription, error) {
	subject, err := s.repo.ReadSubject(ctx, payment.SubjectID)
	if err != nil {
		return nil, err
	}

	start := s.now().UTC()
	sub := models.Subscription{
		ID:             uuid.NewString(),
		UserEmail:      payment.UserEmail,
		SubjectID:      subject.ID,
		SubjectName:    subject.DisplayName(),
		Price:          payment.Amount,
		DurationMonths: subject.DurationMonths,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, subject.DurationMonths*daysPerMonth),
		PaymentStatus:  models.PaymentStatusCompleted,
		OrderID:        payment.OrderID,
		CreatedAt:      start,
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscription activated",
		slog.String("order_id", payment.OrderID),
		slog.String("subject_id", subject.ID),
		slog.Time("end_date", sub.EndDate))

	s.notifyPurchase(ctx, sub)
	return &sub, nil
}

// notifyPurchase publishes the confirmation event. A broker failure is logged
// and swallowed, it must never fail the purchase itself.
func (s *PaymentService) notifyPurchase(ctx context.Context, sub models.Subscription) {
	name := sub.UserEmail
	if user, err := s.repo.GetUserByEmail(ctx, sub.UserEmail); err == nil {
		name = user.Name
	}

	event := models.PurchaseEvent{
		Email:       sub.UserEmail,
		Name:        name,
		SubjectName: sub.SubjectName,
		Price:       sub.Price,
		EndDate:     sub.EndDate,
	}
	if err := s.publisher.PublishPurchase(event); err != nil {
		s.log.Error("failed to publish purchase event", sl.Err(err),
			slog.String("order_id", sub.OrderID))
	}
}
