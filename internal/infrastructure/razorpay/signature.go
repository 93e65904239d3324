package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verify reports whether signature is the hex HMAC-SHA256 of message under
// secret. The comparison runs in constant time.
func Verify(message []byte, signature string, secret []byte) bool {
	if signature == "" || len(secret) == 0 {
		return false
	}
	expected := Sign(message, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func Sign(message, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// CheckoutMessage is the payload the gateway signs after checkout.
func CheckoutMessage(orderID, paymentID string) []byte {
	return []byte(orderID + "|" + paymentID)
}

// Verifier holds the two gateway secrets. The key secret signs checkout
// results, the webhook secret signs webhook bodies.
type Verifier struct {
	keySecret     []byte
	webhookSecret []byte
}

func NewVerifier(keySecret, webhookSecret string) *Verifier {
	return &Verifier{
		keySecret:     []byte(keySecret),
		webhookSecret: []byte(webhookSecret),
	}
}

func (v *Verifier) VerifyCheckout(orderID, paymentID, signature string) bool {
	return Verify(CheckoutMessage(orderID, paymentID), signature, v.keySecret)
}

// VerifyWebhook must be given the request body exactly as received.
func (v *Verifier) VerifyWebhook(body []byte, signature string) bool {
	return Verify(body, signature, v.webhookSecret)
}
