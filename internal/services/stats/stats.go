// Package stats aggregates the back-office dashboard numbers.
package stats

import (
	"context"
	"time"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

// StatsRepository defines the aggregate queries behind the dashboard.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	CountSubscriptions(ctx context.Context, paymentStatus string, now time.Time) (int, int, error)
	ListSubjects(ctx context.Context, visibleOnly bool) ([]models.Subject, error)
}

// Summary is the admin dashboard payload.
type Summary struct {
	TotalUsers          int `json:"total_users"`
	TotalSubjects       int `json:"total_subjects"`
	ActiveSubscriptions int `json:"active_subscriptions"` // Completed and not yet expired
	TotalRevenue        int `json:"total_revenue"`        // Rupees, completed payments only
}

// StatsService computes the dashboard summary.
type StatsService struct {
	repo StatsRepository
	now  func() time.Time
}

// NewStatsService creates a StatsService using the wall clock.
func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo, now: time.Now}
}

// Summary counts users, subjects and currently running paid subscriptions,
// and sums the revenue over every completed purchase, expired ones included.
func (s *StatsService) Summary(ctx context.Context) (Summary, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return Summary{}, err
	}
	subjects, err := s.repo.ListSubjects(ctx, false)
	if err != nil {
		return Summary{}, err
	}
	active, revenue, err := s.repo.CountSubscriptions(ctx, models.PaymentStatusCompleted, s.now().UTC())
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalUsers:          users,
		TotalSubjects:       len(subjects),
		ActiveSubscriptions: active,
		TotalRevenue:        revenue,
	}, nil
}
