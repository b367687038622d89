package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HarshG200/neuron-edtech/internal/models"
	"github.com/HarshG200/neuron-edtech/internal/paymentprovider"
	"github.com/HarshG200/neuron-edtech/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreatePayment(ctx context.Context, p models.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) ReadPayment(ctx context.Context, orderID string) (*models.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockRepository) UpdatePaymentStatus(ctx context.Context, orderID, status, paymentID string) (int, error) {
	args := m.Called(ctx, orderID, status, paymentID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockRepository) FindSubscriptionByOrder(ctx context.Context, orderID string) (*models.Subscription, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockRepository) ReadSubject(ctx context.Context, id string) (*models.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subject), args.Error(1)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateOrder(reqParams paymentprovider.CreateOrderRequest) (*paymentprovider.Order, error) {
	args := m.Called(reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Order), args.Error(1)
}

func (m *MockProvider) VerifyCheckoutSignature(orderID, paymentID, signature string) error {
	args := m.Called(orderID, paymentID, signature)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPurchase(event models.PurchaseEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var testSubject = &models.Subject{
	ID:             "subj-1",
	Board:          "ICSE",
	ClassName:      "Class 10",
	SubjectName:    "Physics",
	Price:          499,
	DurationMonths: 12,
	IsVisible:      true,
}

func TestPaymentService_CreateOrder(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockRepository, *MockProvider)
		expectedError error
	}{
		{
			name: "success - amount converted to paise",
			setupMocks: func(r *MockRepository, p *MockProvider) {
				r.On("ReadSubject", mock.Anything, "subj-1").Return(testSubject, nil).Once()
				p.On("CreateOrder", mock.MatchedBy(func(req paymentprovider.CreateOrderRequest) bool {
					return req.Amount == 49900 && req.Currency == "INR" && req.PaymentCapture == 1
				})).Return(&paymentprovider.Order{ID: "order_1", Amount: 49900, Currency: "INR"}, nil).Once()
				r.On("CreatePayment", mock.Anything, mock.MatchedBy(func(pay models.Payment) bool {
					return pay.OrderID == "order_1" && pay.Amount == 499 && pay.Status == models.OrderStatusCreated
				})).Return(nil).Once()
			},
		},
		{
			name: "subject missing",
			setupMocks: func(r *MockRepository, p *MockProvider) {
				r.On("ReadSubject", mock.Anything, "subj-1").Return(nil, repository.ErrNotFound).Once()
			},
			expectedError: ErrSubjectUnavailable,
		},
		{
			name: "gateway failure",
			setupMocks: func(r *MockRepository, p *MockProvider) {
				r.On("ReadSubject", mock.Anything, "subj-1").Return(testSubject, nil).Once()
				p.On("CreateOrder", mock.Anything).Return(nil, errors.New("gateway down")).Once()
			},
			expectedError: errors.New("gateway down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			provider := new(MockProvider)
			tt.setupMocks(repo, provider)
			svc := NewPaymentService(repo, provider, new(MockPublisher), "whsec", newNoopLogger())

			order, err := svc.CreateOrder(context.Background(), "student@example.com", "subj-1")
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				require.NoError(t, err)
				assert.Equal(t, "order_1", order.ID)
			}
			repo.AssertExpectations(t)
			provider.AssertExpectations(t)
		})
	}
}

func TestPaymentService_Verify(t *testing.T) {
	storedPayment := &models.Payment{
		OrderID:   "order_1",
		UserEmail: "student@example.com",
		SubjectID: "subj-1",
		Amount:    499,
		Currency:  "INR",
		Status:    models.OrderStatusCreated,
	}
	verifyReq := models.DummyVerify{
		PaymentID: "pay_1",
		OrderID:   "order_1",
		Signature: "sig",
	}

	tests := []struct {
		name       string
		setupMocks func(*MockRepository, *MockProvider, *MockPublisher)
		check      func(t *testing.T, sub *models.Subscription, err error)
	}{
		{
			name: "first verify activates subscription and publishes event",
			setupMocks: func(r *MockRepository, p *MockProvider, pub *MockPublisher) {
				p.On("VerifyCheckoutSignature", "order_1", "pay_1", "sig").Return(nil).Once()
				r.On("ReadPayment", mock.Anything, "order_1").Return(storedPayment, nil).Once()
				r.On("UpdatePaymentStatus", mock.Anything, "order_1", models.OrderStatusVerified, "pay_1").Return(1, nil).Once()
				r.On("FindSubscriptionByOrder", mock.Anything, "order_1").Return(nil, repository.ErrNotFound).Once()
				r.On("ReadSubject", mock.Anything, "subj-1").Return(testSubject, nil).Once()
				r.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
					return sub.OrderID == "order_1" &&
						sub.SubjectName == "ICSE - Class 10 - Physics" &&
						sub.PaymentStatus == models.PaymentStatusCompleted &&
						sub.EndDate.Equal(sub.StartDate.AddDate(0, 0, 360))
				})).Return(nil).Once()
				r.On("GetUserByEmail", mock.Anything, "student@example.com").
					Return(&models.User{Email: "student@example.com", Name: "Asha"}, nil).Once()
				pub.On("PublishPurchase", mock.MatchedBy(func(ev models.PurchaseEvent) bool {
					return ev.Email == "student@example.com" && ev.Name == "Asha" && ev.Price == 499
				})).Return(nil).Once()
			},
			check: func(t *testing.T, sub *models.Subscription, err error) {
				require.NoError(t, err)
				assert.Equal(t, models.PaymentStatusCompleted, sub.PaymentStatus)
				assert.Equal(t, "ICSE - Class 10 - Physics", sub.SubjectName)
			},
		},
		{
			name: "replayed verify returns existing subscription",
			setupMocks: func(r *MockRepository, p *MockProvider, pub *MockPublisher) {
				existing := &models.Subscription{ID: "sub-1", OrderID: "order_1"}
				p.On("VerifyCheckoutSignature", "order_1", "pay_1", "sig").Return(nil).Once()
				r.On("ReadPayment", mock.Anything, "order_1").Return(storedPayment, nil).Once()
				r.On("UpdatePaymentStatus", mock.Anything, "order_1", models.OrderStatusVerified, "pay_1").Return(1, nil).Once()
				r.On("FindSubscriptionByOrder", mock.Anything, "order_1").Return(existing, nil).Once()
			},
			check: func(t *testing.T, sub *models.Subscription, err error) {
				require.NoError(t, err)
				assert.Equal(t, "sub-1", sub.ID)
			},
		},
		{
			name: "bad signature never touches storage",
			setupMocks: func(r *MockRepository, p *MockProvider, pub *MockPublisher) {
				p.On("VerifyCheckoutSignature", "order_1", "pay_1", "sig").
					Return(paymentprovider.ErrInvalidSignature).Once()
			},
			check: func(t *testing.T, sub *models.Subscription, err error) {
				require.ErrorIs(t, err, paymentprovider.ErrInvalidSignature)
				assert.Nil(t, sub)
			},
		},
		{
			name: "broker failure does not fail the purchase",
			setupMocks: func(r *MockRepository, p *MockProvider, pub *MockPublisher) {
				p.On("VerifyCheckoutSignature", "order_1", "pay_1", "sig").Return(nil).Once()
				r.On("ReadPayment", mock.Anything, "order_1").Return(storedPayment, nil).Once()
				r.On("UpdatePaymentStatus", mock.Anything, "order_1", models.OrderStatusVerified, "pay_1").Return(1, nil).Once()
				r.On("FindSubscriptionByOrder", mock.Anything, "order_1").Return(nil, repository.ErrNotFound).Once()
				r.On("ReadSubject", mock.Anything, "subj-1").Return(testSubject, nil).Once()
				r.On("CreateSubscription", mock.Anything, mock.Anything).Return(nil).Once()
				r.On("GetUserByEmail", mock.Anything, "student@example.com").Return(nil, repository.ErrNotFound).Once()
				pub.On("PublishPurchase", mock.Anything).Return(errors.New("broker down")).Once()
			},
			check: func(t *testing.T, sub *models.Subscription, err error) {
				require.NoError(t, err)
				require.NotNil(t, sub)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			provider := new(MockProvider)
			publisher := new(MockPublisher)
			tt.setupMocks(repo, provider, publisher)
			svc := NewPaymentService(repo, provider, publisher, "whsec", newNoopLogger())

			sub, err := svc.Verify(context.Background(), verifyReq)
			tt.check(t, sub, err)
			repo.AssertExpectations(t)
			provider.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestPaymentService_Verify_FrozenClock(t *testing.T) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	publisher := new(MockPublisher)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	provider.On("VerifyCheckoutSignature", "order_1", "pay_1", "sig").Return(nil).Once()
	repo.On("ReadPayment", mock.Anything, "order_1").Return(&models.Payment{
		OrderID: "order_1", UserEmail: "s@example.com", SubjectID: "subj-1",
	}, nil).Once()
	repo.On("UpdatePaymentStatus", mock.Anything, "order_1", models.OrderStatusVerified, "pay_1").Return(1, nil).Once()
	repo.On("FindSubscriptionByOrder", mock.Anything, "order_1").Return(nil, repository.ErrNotFound).Once()
	repo.On("ReadSubject", mock.Anything, "subj-1").Return(&models.Subject{
		ID: "subj-1", Board: "CBSE", ClassName: "Class 9", SubjectName: "Maths",
		Price: 299, DurationMonths: 1,
	}, nil).Once()
	repo.On("CreateSubscription", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("GetUserByEmail", mock.Anything, "s@example.com").Return(nil, repository.ErrNotFound).Once()
	publisher.On("PublishPurchase", mock.Anything).Return(nil).Once()

	svc := NewPaymentService(repo, provider, publisher, "whsec", newNoopLogger())
	svc.now = func() time.Time { return now }

	sub, err := svc.Verify(context.Background(),
		models.DummyVerify{PaymentID: "pay_1", OrderID: "order_1", Signature: "sig"})
	require.NoError(t, err)
	assert.Equal(t, now, sub.StartDate)
	assert.Equal(t, now.AddDate(0, 0, 30), sub.EndDate)
	repo.AssertExpectations(t)
}

func TestPaymentService_Verify_FreezesAmountPaid(t *testing.T) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	publisher := new(MockPublisher)

	// The catalog price was raised to 999 after the order was created; the
	// subscription and the confirmation event must keep the 499 that was paid.
	provider.On("VerifyCheckoutSignature", "order_1", "pay_1", "sig").Return(nil).Once()
	repo.On("ReadPayment", mock.Anything, "order_1").Return(&models.Payment{
		OrderID: "order_1", UserEmail: "student@example.com", SubjectID: "subj-1",
		Amount: 499, Currency: "INR", Status: models.OrderStatusCreated,
	}, nil).Once()
	repo.On("UpdatePaymentStatus", mock.Anything, "order_1", models.OrderStatusVerified, "pay_1").Return(1, nil).Once()
	repo.On("FindSubscriptionByOrder", mock.Anything, "order_1").Return(nil, repository.ErrNotFound).Once()
	repo.On("ReadSubject", mock.Anything, "subj-1").Return(&models.Subject{
		ID: "subj-1", Board: "ICSE", ClassName: "Class 10", SubjectName: "Physics",
		Price: 999, DurationMonths: 12,
	}, nil).Once()
	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		return sub.Price == 499
	})).Return(nil).Once()
	repo.On("GetUserByEmail", mock.Anything, "student@example.com").Return(nil, repository.ErrNotFound).Once()
	publisher.On("PublishPurchase", mock.MatchedBy(func(ev models.PurchaseEvent) bool {
		return ev.Price == 499
	})).Return(nil).Once()

	svc := NewPaymentService(repo, provider, publisher, "whsec", newNoopLogger())

	sub, err := svc.Verify(context.Background(),
		models.DummyVerify{PaymentID: "pay_1", OrderID: "order_1", Signature: "sig"})
	require.NoError(t, err)
	assert.Equal(t, 499, sub.Price)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
