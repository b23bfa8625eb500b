package wallet

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
)

// PaymentEvent is the verified payment contract coming from the external
// payment authority: an order id, a payment id, and a signature over
// "orderId|paymentId" under the shared secret.
type PaymentEvent struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Amount    int64  `json:"amount"`
	Signature string `json:"signature"`
}

// VerifySignature recomputes the HMAC-SHA256 over "orderId|paymentId" and
// rejects a mismatch before any wallet is touched.
func VerifySignature(secret string, ev PaymentEvent) error {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", ev.OrderID, ev.PaymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(ev.Signature)) {
		return fmt.Errorf("%w: invalid payment signature", errs.ErrUnauthorized)
	}
	return nil
}

// Sign produces the signature the payment authority would attach. Exported
// for tests and local tooling.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}
