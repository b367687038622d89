package subscription

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HarshG200/neuron-edtech/internal/entitlement"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

type MockSubscriptionRepo struct {
	mock.Mock
}

func (m *MockSubscriptionRepo) ListSubscriptionsByUser(ctx context.Context, email string) ([]models.Subscription, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]models.Subscription, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSubscriptionService_ListMy(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	email := "student@example.com"
	subs := []models.Subscription{
		{
			ID:            "old",
			SubjectID:     "subj-1",
			PaymentStatus: models.PaymentStatusCompleted,
			EndDate:       now.Add(-time.Hour),
		},
		{
			ID:            "fresh",
			SubjectID:     "subj-2",
			PaymentStatus: models.PaymentStatusCompleted,
			EndDate:       now.Add(72 * time.Hour),
		},
		{
			ID:            "unpaid",
			SubjectID:     "subj-3",
			PaymentStatus: models.PaymentStatusPending,
			EndDate:       now.Add(240 * time.Hour),
		},
	}

	repo := new(MockSubscriptionRepo)
	repo.On("ListSubscriptionsByUser", mock.Anything, email).Return(subs, nil).Once()

	svc := NewSubscriptionService(repo, newNoopLogger())
	svc.now = func() time.Time { return now }

	entries, err := svc.ListMy(context.Background(), email)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest entitlement first.
	assert.Equal(t, "unpaid", entries[0].ID)
	assert.Equal(t, "fresh", entries[1].ID)
	assert.Equal(t, "old", entries[2].ID)

	assert.Equal(t, entitlement.StatusPending, entries[0].Status)
	assert.Equal(t, entitlement.StatusActive, entries[1].Status)
	assert.Equal(t, entitlement.StatusExpired, entries[2].Status)
}

func TestSubscriptionService_Check(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	email := "student@example.com"

	tests := []struct {
		name     string
		subs     []models.Subscription
		expected bool
	}{
		{
			name: "active grants",
			subs: []models.Subscription{{
				SubjectID:     "subj-1",
				PaymentStatus: models.PaymentStatusCompleted,
				EndDate:       now.Add(time.Minute),
			}},
			expected: true,
		},
		{
			name:     "empty denies",
			subs:     nil,
			expected: false,
		},
		{
			name: "boundary denies",
			subs: []models.Subscription{{
				SubjectID:     "subj-1",
				PaymentStatus: models.PaymentStatusCompleted,
				EndDate:       now,
			}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSubscriptionRepo)
			repo.On("ListSubscriptionsByUser", mock.Anything, email).Return(tt.subs, nil).Once()

			svc := NewSubscriptionService(repo, newNoopLogger())
			svc.now = func() time.Time { return now }

			ok, err := svc.Check(context.Background(), email, "subj-1")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}
