package paymentprovider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCheckoutSignature(t *testing.T) {
	c := NewClient("rzp_test_key", "secret123")

	valid := sign("order_abc|pay_xyz", "secret123")

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		wantErr   bool
	}{
		{name: "valid signature", orderID: "order_abc", paymentID: "pay_xyz", signature: valid},
		{name: "tampered order id", orderID: "order_def", paymentID: "pay_xyz", signature: valid, wantErr: true},
		{name: "tampered payment id", orderID: "order_abc", paymentID: "pay_other", signature: valid, wantErr: true},
		{name: "garbage signature", orderID: "order_abc", paymentID: "pay_xyz", signature: "deadbeef", wantErr: true},
		{name: "empty signature", orderID: "order_abc", paymentID: "pay_xyz", signature: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.VerifyCheckoutSignature(tt.orderID, tt.paymentID, tt.signature)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSignature)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)

	require.NoError(t, VerifyWebhookSignature(body, sign(string(body), "whsec"), "whsec"))
	assert.ErrorIs(t, VerifyWebhookSignature(body, "bad", "whsec"), ErrInvalidSignature)
	assert.NoError(t, VerifyWebhookSignature(body, "anything", ""),
		"blank webhook secret disables the check")
}
