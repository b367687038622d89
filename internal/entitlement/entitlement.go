// Package entitlement holds the single source of truth for "may this user see
// this subject right now". The materials gate, the subscription check endpoint
// and the portal dashboard all go through this package instead of comparing
// dates inline.
//
// All functions are pure: the clock is always an argument, there is no I/O and
// no hidden state.
package entitlement

import (
	"sort"
	"time"

	"github.com/HarshG200/neuron-edtech/internal/models"
)

// Decision is the derived grant/deny outcome for one subject.
type Decision string

const (
	Granted Decision = "granted"
	Denied  Decision = "denied"
)

// Status classifies one subscription's lifecycle at a point in time.
type Status string

const (
	// StatusPending means payment not completed yet, whatever the dates say.
	StatusPending Status = "pending"
	// StatusActive means paid and inside the [start, end) window.
	StatusActive Status = "active"
	// StatusExpired means paid, but the end date has passed. End date equal
	// to now counts as expired: the access window is closed-open.
	StatusExpired Status = "expired"
)

// Classify returns the lifecycle status of a single subscription at time now.
func Classify(sub models.Subscription, now time.Time) Status {
	if sub.PaymentStatus != models.PaymentStatusCompleted {
		return StatusPending
	}
	if sub.EndDate.After(now) {
		return StatusActive
	}
	return StatusExpired
}

// ComputeAccess maps every subject to granted or denied: granted iff at least
// one subscription for that subject is active at time now. An empty
// subscription list yields all-denied; duplicate qualifying subscriptions are
// idempotent and input order never changes the result.
func ComputeAccess(subjects []models.Subject, subs []models.Subscription, now time.Time) map[string]Decision {
	active := make(map[string]bool, len(subs))
	for _, sub := range subs {
		if Classify(sub, now) == StatusActive {
			active[sub.SubjectID] = true
		}
	}

	access := make(map[string]Decision, len(subjects))
	for _, subject := range subjects {
		if active[subject.ID] {
			access[subject.ID] = Granted
		} else {
			access[subject.ID] = Denied
		}
	}
	return access
}

// SortForDisplay orders subscriptions for the "my plans" view: most relevant
// first, i.e. end date descending, ties broken by ID so the order is stable
// across calls. The input slice is not modified.
func SortForDisplay(subs []models.Subscription) []models.Subscription {
	out := make([]models.Subscription, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EndDate.Equal(out[j].EndDate) {
			return out[i].EndDate.After(out[j].EndDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
