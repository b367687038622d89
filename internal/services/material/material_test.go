package material

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

type MockMaterialRepo struct {
	mock.Mock
}

func (m *MockMaterialRepo) CreateMaterial(ctx context.Context, mat models.Material) error {
	args := m.Called(ctx, mat)
	return args.Error(0)
}

func (m *MockMaterialRepo) UpdateMaterial(ctx context.Context, mat models.Material) (int, error) {
	args := m.Called(ctx, mat)
	return args.Int(0), args.Error(1)
}

func (m *MockMaterialRepo) RemoveMaterial(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockMaterialRepo) ListMaterialsBySubject(ctx context.Context, subjectID string) ([]models.Material, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Material), args.Error(1)
}

func (m *MockMaterialRepo) ListAllMaterials(ctx context.Context) ([]models.Material, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Material), args.Error(1)
}

type MockSubscriptionReader struct {
	mock.Mock
}

func (m *MockSubscriptionReader) ListSubscriptionsByUser(ctx context.Context, email string) ([]models.Subscription, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestMaterialService_ListForUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	email := "student@example.com"
	materials := []models.Material{
		{ID: "m1", SubjectID: "subj-1", Title: "Chapter 1", Type: models.MaterialTypePDF, Link: "https://drive.example/1"},
	}

	tests := []struct {
		name          string
		subs          []models.Subscription
		expectedError error
		expectList    bool
	}{
		{
			name: "active subscription unlocks materials",
			subs: []models.Subscription{{
				SubjectID:     "subj-1",
				PaymentStatus: models.PaymentStatusCompleted,
				EndDate:       now.Add(24 * time.Hour),
			}},
			expectList: true,
		},
		{
			name:          "no subscription at all",
			subs:          nil,
			expectedError: ErrNoSubscription,
		},
		{
			name: "expired subscription reports expiry",
			subs: []models.Subscription{{
				SubjectID:     "subj-1",
				PaymentStatus: models.PaymentStatusCompleted,
				EndDate:       now.Add(-time.Hour),
			}},
			expectedError: ErrSubscriptionExpired,
		},
		{
			name: "end date equal to now counts as expired",
			subs: []models.Subscription{{
				SubjectID:     "subj-1",
				PaymentStatus: models.PaymentStatusCompleted,
				EndDate:       now,
			}},
			expectedError: ErrSubscriptionExpired,
		},
		{
			name: "pending payment never grants",
			subs: []models.Subscription{{
				SubjectID:     "subj-1",
				PaymentStatus: models.PaymentStatusPending,
				EndDate:       now.Add(24 * time.Hour),
			}},
			expectedError: ErrNoSubscription,
		},
		{
			name: "subscription for another subject does not leak across",
			subs: []models.Subscription{{
				SubjectID:     "subj-2",
				PaymentStatus: models.PaymentStatusCompleted,
				EndDate:       now.Add(24 * time.Hour),
			}},
			expectedError: ErrNoSubscription,
		},
		{
			name: "expired plus active duplicate still grants",
			subs: []models.Subscription{
				{
					SubjectID:     "subj-1",
					PaymentStatus: models.PaymentStatusCompleted,
					EndDate:       now.Add(-time.Hour),
				},
				{
					SubjectID:     "subj-1",
					PaymentStatus: models.PaymentStatusCompleted,
					EndDate:       now.Add(48 * time.Hour),
				},
			},
			expectList: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMaterialRepo)
			subs := new(MockSubscriptionReader)
			subs.On("ListSubscriptionsByUser", mock.Anything, email).Return(tt.subs, nil).Once()
			if tt.expectList {
				repo.On("ListMaterialsBySubject", mock.Anything, "subj-1").Return(materials, nil).Once()
			}

			svc := NewMaterialService(repo, subs, newNoopLogger())
			svc.now = func() time.Time { return now }

			got, err := svc.ListForUser(context.Background(), email, "subj-1")
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, got, "links must not leak on a denial")
			} else {
				require.NoError(t, err)
				assert.Equal(t, materials, got)
			}
			repo.AssertExpectations(t)
			subs.AssertExpectations(t)
		})
	}
}
