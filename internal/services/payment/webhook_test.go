package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HarshG200/neuron-edtech/internal/models"
	"github.com/HarshG200/neuron-edtech/internal/paymentprovider"
	"github.com/HarshG200/neuron-edtech/internal/storage/repository"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentService_HandleWebhook(t *testing.T) {
	const secret = "whsec"
	capturedBody := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_9","order_id":"order_9","amount":49900,"status":"captured"}}}}`)

	t.Run("captured event activates pending subscription", func(t *testing.T) {
		repo := new(MockRepository)
		publisher := new(MockPublisher)
		repo.On("UpdatePaymentStatus", mock.Anything, "order_9", models.OrderStatusCaptured, "pay_9").Return(1, nil).Once()
		repo.On("FindSubscriptionByOrder", mock.Anything, "order_9").Return(nil, repository.ErrNotFound).Once()
		repo.On("ReadPayment", mock.Anything, "order_9").Return(&models.Payment{
			OrderID: "order_9", UserEmail: "s@example.com", SubjectID: "subj-1",
		}, nil).Once()
		repo.On("ReadSubject", mock.Anything, "subj-1").Return(testSubject, nil).Once()
		repo.On("CreateSubscription", mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("GetUserByEmail", mock.Anything, "s@example.com").Return(nil, repository.ErrNotFound).Once()
		publisher.On("PublishPurchase", mock.Anything).Return(nil).Once()

		svc := NewPaymentService(repo, new(MockProvider), publisher, secret, newNoopLogger())
		err := svc.HandleWebhook(context.Background(), capturedBody, signBody(capturedBody, secret))
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("already activated order is acknowledged without a new subscription", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdatePaymentStatus", mock.Anything, "order_9", models.OrderStatusCaptured, "pay_9").Return(1, nil).Once()
		repo.On("FindSubscriptionByOrder", mock.Anything, "order_9").
			Return(&models.Subscription{ID: "sub-1", OrderID: "order_9"}, nil).Once()

		svc := NewPaymentService(repo, new(MockProvider), new(MockPublisher), secret, newNoopLogger())
		err := svc.HandleWebhook(context.Background(), capturedBody, signBody(capturedBody, secret))
		require.NoError(t, err)
		repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		svc := NewPaymentService(new(MockRepository), new(MockProvider), new(MockPublisher), secret, newNoopLogger())
		err := svc.HandleWebhook(context.Background(), append(capturedBody, ' '), signBody(capturedBody, secret))
		assert.ErrorIs(t, err, paymentprovider.ErrInvalidSignature)
	})

	t.Run("non-captured events are dropped", func(t *testing.T) {
		body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_9","order_id":"order_9"}}}}`)
		repo := new(MockRepository)
		svc := NewPaymentService(repo, new(MockProvider), new(MockPublisher), secret, newNoopLogger())
		err := svc.HandleWebhook(context.Background(), body, signBody(body, secret))
		require.NoError(t, err)
		repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
