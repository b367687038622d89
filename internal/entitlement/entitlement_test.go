package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

var t0 = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func sub(id, subjectID, status string, end time.Time) models.Subscription {
	return models.Subscription{
		ID:            id,
		SubjectID:     subjectID,
		PaymentStatus: status,
		StartDate:     end.AddDate(0, -6, 0),
		EndDate:       end,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		sub  models.Subscription
		now  time.Time
		want Status
	}{
		{
			name: "completed with future end date is active",
			sub:  sub("s1", "bio", models.PaymentStatusCompleted, t0.AddDate(0, 5, 0)),
			now:  t0,
			want: StatusActive,
		},
		{
			name: "completed with past end date is expired",
			sub:  sub("s1", "bio", models.PaymentStatusCompleted, t0.AddDate(0, -1, 0)),
			now:  t0,
			want: StatusExpired,
		},
		{
			name: "end date exactly now is expired, not active",
			sub:  sub("s1", "bio", models.PaymentStatusCompleted, t0),
			now:  t0,
			want: StatusExpired,
		},
		{
			name: "created payment is pending regardless of dates",
			sub:  sub("s1", "bio", models.PaymentStatusCreated, t0.AddDate(0, 6, 0)),
			now:  t0,
			want: StatusPending,
		},
		{
			name: "failed payment is pending regardless of dates",
			sub:  sub("s1", "bio", models.PaymentStatusFailed, t0.AddDate(0, 6, 0)),
			now:  t0,
			want: StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sub, tt.now))
		})
	}
}

func TestComputeAccess(t *testing.T) {
	bio := models.Subject{ID: "icse-10-biology", Price: 500, DurationMonths: 6}
	chem := models.Subject{ID: "icse-10-chemistry", Price: 500, DurationMonths: 6}
	subjects := []models.Subject{bio, chem}

	tests := []struct {
		name string
		subs []models.Subscription
		want map[string]Decision
	}{
		{
			name: "empty subscriptions denies everything",
			subs: nil,
			want: map[string]Decision{bio.ID: Denied, chem.ID: Denied},
		},
		{
			name: "one active subscription grants its subject only",
			subs: []models.Subscription{
				sub("s1", bio.ID, models.PaymentStatusCompleted, t0.AddDate(0, 5, 0)),
			},
			want: map[string]Decision{bio.ID: Granted, chem.ID: Denied},
		},
		{
			name: "incomplete payment never grants",
			subs: []models.Subscription{
				sub("s1", bio.ID, models.PaymentStatusPending, t0.AddDate(0, 5, 0)),
			},
			want: map[string]Decision{bio.ID: Denied, chem.ID: Denied},
		},
		{
			name: "expired subscription never grants",
			subs: []models.Subscription{
				sub("s1", bio.ID, models.PaymentStatusCompleted, t0),
			},
			want: map[string]Decision{bio.ID: Denied, chem.ID: Denied},
		},
		{
			name: "duplicate active subscriptions are idempotent",
			subs: []models.Subscription{
				sub("s1", bio.ID, models.PaymentStatusCompleted, t0.AddDate(0, 5, 0)),
				sub("s2", bio.ID, models.PaymentStatusCompleted, t0.AddDate(0, 2, 0)),
			},
			want: map[string]Decision{bio.ID: Granted, chem.ID: Denied},
		},
		{
			name: "expired and active for the same subject still grants",
			subs: []models.Subscription{
				sub("s1", bio.ID, models.PaymentStatusCompleted, t0.AddDate(0, -2, 0)),
				sub("s2", bio.ID, models.PaymentStatusCompleted, t0.AddDate(0, 4, 0)),
			},
			want: map[string]Decision{bio.ID: Granted, chem.ID: Denied},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeAccess(subjects, tt.subs, t0))
		})
	}
}

func TestComputeAccess_PureAndOrderInsensitive(t *testing.T) {
	subjects := []models.Subject{{ID: "bio"}, {ID: "chem"}, {ID: "phy"}}
	subs := []models.Subscription{
		sub("s1", "bio", models.PaymentStatusCompleted, t0.AddDate(0, 3, 0)),
		sub("s2", "chem", models.PaymentStatusCompleted, t0.AddDate(0, -3, 0)),
		sub("s3", "phy", models.PaymentStatusCreated, t0.AddDate(0, 3, 0)),
	}

	first := ComputeAccess(subjects, subs, t0)
	second := ComputeAccess(subjects, subs, t0)
	assert.Equal(t, first, second, "same inputs must yield the same output")

	reversed := []models.Subscription{subs[2], subs[1], subs[0]}
	assert.Equal(t, first, ComputeAccess(subjects, reversed, t0),
		"permuting subscriptions must not change the result")
}

func TestSortForDisplay(t *testing.T) {
	a := sub("a", "bio", models.PaymentStatusCompleted, t0.AddDate(0, 1, 0))
	b := sub("b", "chem", models.PaymentStatusCompleted, t0.AddDate(0, 6, 0))
	c := sub("c", "phy", models.PaymentStatusCompleted, t0.AddDate(0, 6, 0))

	in := []models.Subscription{c, a, b}
	got := SortForDisplay(in)

	assert.Equal(t, []string{"b", "c", "a"}, []string{got[0].ID, got[1].ID, got[2].ID},
		"end date descending, ties by id")
	assert.Equal(t, "c", in[0].ID, "input slice must not be reordered")
}

// The end-to-end scenarios from the dashboard's point of view.
func TestAccessScenarios(t *testing.T) {
	bio := models.Subject{ID: "bio", Price: 500, DurationMonths: 6}
	start := t0

	t.Run("no subscriptions means buy plan", func(t *testing.T) {
		got := ComputeAccess([]models.Subject{bio}, nil, t0)
		assert.Equal(t, Denied, got["bio"])
	})

	paid := models.Subscription{
		ID: "s1", SubjectID: "bio", PaymentStatus: models.PaymentStatusCompleted,
		StartDate: start, EndDate: start.AddDate(0, 6, 0),
	}

	t.Run("one month in, materials open", func(t *testing.T) {
		now := start.AddDate(0, 1, 0)
		got := ComputeAccess([]models.Subject{bio}, []models.Subscription{paid}, now)
		assert.Equal(t, Granted, got["bio"])
		assert.Equal(t, StatusActive, Classify(paid, now))
	})

	t.Run("seven months in, expired badge", func(t *testing.T) {
		now := start.AddDate(0, 7, 0)
		got := ComputeAccess([]models.Subject{bio}, []models.Subscription{paid}, now)
		assert.Equal(t, Denied, got["bio"])
		assert.Equal(t, StatusExpired, Classify(paid, now))
	})
}
