package models

import "time"

// Payment order lifecycle. An order starts as "created"; the gateway callback
// path moves it to "verified" (checkout flow) or "captured" (webhook flow).
const (
	OrderStatusCreated  = "created"
	OrderStatusVerified = "verified"
	OrderStatusCaptured = "captured"
	OrderStatusFailed   = "failed"
)

// Payment is a gateway order record. Amount is stored in rupees, the gateway
// receives paise.
type Payment struct {
	OrderID   string    `json:"order_id"`
	UserEmail string    `json:"user_email"`
	SubjectID string    `json:"subject_id"`
	Amount    int       `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	PaymentID string    `json:"payment_id,omitempty"` // gateway payment entity, set on capture
	CreatedAt time.Time `json:"created_at"`
}

// DummyOrder carries a checkout request from the portal.
type DummyOrder struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Amount    int    `json:"amount" validate:"required,gt=0"`
}

// DummyVerify carries the gateway-returned triple from the checkout widget.
type DummyVerify struct {
	PaymentID string `json:"payment_id" validate:"required"`
	OrderID   string `json:"order_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// PurchaseEvent is published to the notifications exchange once a payment is
// verified and the subscription row exists.
type PurchaseEvent struct {
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	SubjectName string    `json:"subject_name"`
	Price       int       `json:"price"`
	EndDate     time.Time `json:"end_date"`
}
