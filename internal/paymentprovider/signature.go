package paymentprovider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrInvalidSignature is returned when a checkout or webhook signature does
// not match.
var ErrInvalidSignature = errors.New("invalid payment signature")

// VerifyCheckoutSignature checks the signature the checkout widget returns
// after a payment: HMAC-SHA256 over "orderID|paymentID" keyed with the API
// secret.
func (c *Client) VerifyCheckoutSignature(orderID, paymentID, signature string) error {
	return verifyHMAC([]byte(orderID+"|"+paymentID), signature, c.keySecret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw webhook body, keyed with the webhook secret. A blank secret disables
// the check (local setups without webhook configuration).
func VerifyWebhookSignature(body []byte, signature, webhookSecret string) error {
	if webhookSecret == "" {
		return nil
	}
	return verifyHMAC(body, signature, webhookSecret)
}

func verifyHMAC(message []byte, signature, secret string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
