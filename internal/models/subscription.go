package models

import "time"

// Payment status values carried on a subscription. Only a completed payment
// can ever grant access; expiry is purely time-derived from EndDate.
const (
	PaymentStatusCreated   = "created"
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Subscription is one user's purchase of one subject. Rows are created when a
// payment is verified and are immutable afterwards: price and subject name are
// frozen at purchase time and EndDate is not recomputed if the subject's
// duration later changes.
type Subscription struct {
	ID             string    `json:"id"`
	UserEmail      string    `json:"user_email"`
	SubjectID      string    `json:"subject_id"`
	SubjectName    string    `json:"subject_name"`
	Price          int       `json:"price"`
	DurationMonths int       `json:"duration_months"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"` // always strictly after StartDate
	PaymentStatus  string    `json:"payment_status"`
	OrderID        string    `json:"order_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
