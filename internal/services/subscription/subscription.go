// Package subscription serves a student's purchase history and answers
// subject-level access checks.
package subscription

import (
	"context"
	"log/slog"
	"time"

	"github.com/HarshG200/neuron-edtech/internal/entitlement"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

// SubscriptionRepository defines the storage methods for subscriptions.
type SubscriptionRepository interface {
	ListSubscriptionsByUser(ctx context.Context, email string) ([]models.Subscription, error)
	ListAllSubscriptions(ctx context.Context, limit, offset int) ([]models.Subscription, error)
}

// Entry is a subscription enriched with its evaluated status for display.
type Entry struct {
	models.Subscription
	Status entitlement.Status `json:"status"`
}

// SubscriptionService evaluates and lists subscriptions.
type SubscriptionService struct {
	repo SubscriptionRepository
	now  func() time.Time
	log  *slog.Logger
}

// NewSubscriptionService creates a SubscriptionService using the wall clock.
func NewSubscriptionService(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
}

// ListMy returns the caller's subscriptions, newest entitlement first, each
// carrying its evaluated status.
func (s *SubscriptionService) ListMy(ctx context.Context, email string) ([]Entry, error) {
	subs, err := s.repo.ListSubscriptionsByUser(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sorted := entitlement.SortForDisplay(subs)
	entries := make([]Entry, 0, len(sorted))
	for _, sub := range sorted {
		entries = append(entries, Entry{
			Subscription: sub,
			Status:       entitlement.Classify(sub, now),
		})
	}
	return entries, nil
}

// Check reports whether the user currently holds access to the subject.
func (s *SubscriptionService) Check(ctx context.Context, email, subjectID string) (bool, error) {
	subs, err := s.repo.ListSubscriptionsByUser(ctx, email)
	if err != nil {
		return false, err
	}
	access := entitlement.ComputeAccess([]models.Subject{{ID: subjectID}}, subs, s.now())
	return access[subjectID] == entitlement.Granted, nil
}

// ListAll returns a page of every user's subscriptions. Admin only.
func (s *SubscriptionService) ListAll(ctx context.Context, limit, offset int) ([]models.Subscription, error) {
	return s.repo.ListAllSubscriptions(ctx, limit, offset)
}
